// Package testcase loads stored test data: paired input/answer files
// addressable by zero-padded ordinal, grouped into category directories.
package testcase

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"arbiter/internal/judge/spec"
	appErr "arbiter/pkg/errors"
)

const (
	testsDirName = "tests"
	dataPackName = "tests.tar.zst"
	inputExt     = ".in"
	answerExt    = ".ans"
)

// Load reads all categories from a problem directory. When the plain tests
// tree is absent but a data pack is present, the pack is extracted into
// scratchDir first. A category directory that does not exist is skipped; a
// broken pairing inside an existing one is an error so a damaged data set
// never half-runs.
func Load(problemDir, scratchDir string) (map[spec.Category][]spec.TestCase, error) {
	testsDir := filepath.Join(problemDir, testsDirName)
	if _, err := os.Stat(testsDir); err != nil {
		packPath := filepath.Join(problemDir, dataPackName)
		if _, packErr := os.Stat(packPath); packErr != nil {
			return nil, appErr.Newf(appErr.TestDataMissing, "neither %s nor %s found in %s", testsDirName, dataPackName, problemDir)
		}
		if scratchDir == "" {
			return nil, appErr.ValidationError("scratch_dir", "required to extract a data pack")
		}
		if err := ExtractDataPack(packPath, scratchDir); err != nil {
			return nil, err
		}
		testsDir = filepath.Join(scratchDir, testsDirName)
	}

	out := make(map[spec.Category][]spec.TestCase)
	for _, category := range spec.Categories {
		cases, err := loadCategory(filepath.Join(testsDir, string(category)), category)
		if err != nil {
			return nil, err
		}
		if len(cases) > 0 {
			out[category] = cases
		}
	}
	return out, nil
}

func loadCategory(dir string, category spec.Category) ([]spec.TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, appErr.Wrapf(err, appErr.FileReadFailed, "read category dir %s failed", dir)
	}

	var cases []spec.TestCase
	seen := make(map[uint32]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, inputExt) {
			continue
		}
		base := strings.TrimSuffix(name, inputExt)
		ordinal, err := parseOrdinal(base)
		if err != nil {
			return nil, appErr.Wrapf(err, appErr.TestDataInconsistent, "bad test file name %s", name)
		}
		if prev, dup := seen[ordinal]; dup {
			return nil, appErr.Newf(appErr.TestDataInconsistent, "duplicate ordinal %d (%s and %s)", ordinal, prev, name)
		}
		seen[ordinal] = name

		input, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, appErr.Wrapf(err, appErr.FileReadFailed, "read input %s failed", name)
		}
		answer, err := os.ReadFile(filepath.Join(dir, base+answerExt))
		if err != nil {
			return nil, appErr.Wrapf(err, appErr.TestDataInconsistent, "missing or unreadable answer for %s", name)
		}
		cases = append(cases, spec.TestCase{
			Ordinal:        ordinal,
			Input:          input,
			ExpectedAnswer: answer,
			Category:       category,
		})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Ordinal < cases[j].Ordinal })
	return cases, nil
}

// parseOrdinal accepts zero-padded decimal names such as "001".
func parseOrdinal(base string) (uint32, error) {
	val, err := strconv.ParseUint(base, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(val), nil
}
