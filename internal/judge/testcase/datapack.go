package testcase

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	appErr "arbiter/pkg/errors"
)

// ExtractDataPack unpacks a zstd-compressed tar of test data into dstDir.
// Entry paths are validated so a crafted pack cannot escape the target.
func ExtractDataPack(srcPath, dstDir string) error {
	file, err := os.Open(srcPath)
	if err != nil {
		return appErr.Wrapf(err, appErr.FileReadFailed, "open data pack failed")
	}
	defer file.Close()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return appErr.Wrapf(err, appErr.DataPackCorrupt, "create zstd reader failed")
	}
	defer zstdReader.Close()

	tr := tar.NewReader(zstdReader)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return appErr.Wrapf(err, appErr.DataPackCorrupt, "read tar entry failed")
		}
		if hdr.Name == "" {
			continue
		}
		cleanName := filepath.Clean(hdr.Name)
		if strings.HasPrefix(cleanName, "..") || filepath.IsAbs(cleanName) {
			return appErr.New(appErr.DataPackEscape).WithDetail("entry", hdr.Name)
		}
		target := filepath.Join(dstDir, cleanName)
		if !strings.HasPrefix(target, filepath.Clean(dstDir)+string(filepath.Separator)) {
			return appErr.New(appErr.DataPackEscape).WithDetail("entry", hdr.Name)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return appErr.Wrapf(err, appErr.FileWriteFailed, "create dir failed")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return appErr.Wrapf(err, appErr.FileWriteFailed, "create parent dir failed")
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fs.FileMode(hdr.Mode))
			if err != nil {
				return appErr.Wrapf(err, appErr.FileWriteFailed, "create file failed")
			}
			if _, err := io.Copy(out, tr); err != nil {
				_ = out.Close()
				return appErr.Wrapf(err, appErr.FileWriteFailed, "write file failed")
			}
			_ = out.Close()
		default:
			// skip other types
		}
	}
	return nil
}
