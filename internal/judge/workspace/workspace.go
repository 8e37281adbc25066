// Package workspace manages the per-submission directory layout.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"arbiter/internal/judge/spec"
	appErr "arbiter/pkg/errors"
)

const (
	InputFileName  = "input.txt"
	OutputFileName = "output.txt"
	AnswerFileName = "answer.txt"

	compileDirName = "compile"
)

// Workspace is the scratch tree for one submission. Everything under Root
// is removed when the submission finishes, regardless of outcome.
type Workspace struct {
	Root string
}

// New creates the submission root under workRoot.
func New(workRoot, submissionID string) (*Workspace, error) {
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	root := filepath.Join(workRoot, submissionID)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, appErr.Wrapf(err, appErr.WorkspaceFailed, "create submission work root failed")
	}
	return &Workspace{Root: root}, nil
}

// CompileDir creates and returns the compile scratch directory.
func (w *Workspace) CompileDir() (string, error) {
	dir := filepath.Join(w.Root, compileDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", appErr.Wrapf(err, appErr.WorkspaceFailed, "create compile dir failed")
	}
	return dir, nil
}

// TestDir creates and returns the scratch directory for one test.
func (w *Workspace) TestDir(category spec.Category, ordinal uint32) (string, error) {
	dir := filepath.Join(w.Root, string(category), fmt.Sprintf("%03d", ordinal))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", appErr.Wrapf(err, appErr.WorkspaceFailed, "create test dir failed")
	}
	return dir, nil
}

// Cleanup removes the whole submission tree.
func (w *Workspace) Cleanup() {
	if w == nil || w.Root == "" {
		return
	}
	_ = os.RemoveAll(w.Root)
}
