// Package review implements the commit message review/edit step.
package review

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

// Editor opens a file for editing and blocks until the user is done.
// Implementations wrap the external editor process so tests can
// substitute fakes.
type Editor interface {
	Open(path string) error
}

// Result holds the outcome of a review session.
type Result struct {
	// Message is the final, trimmed commit message.
	Message string
	// Cancelled is true when the user left the draft untouched.
	Cancelled bool
}

// Edit writes the draft message to a fresh temporary file, opens it in
// the editor, and re-reads it. An untouched file means the user
// cancelled; a non-empty change becomes the new message; an empty
// change is an error. The temporary file is removed on every path.
func Edit(message string, editor Editor) (*Result, error) {
	tmpFile, err := os.CreateTemp("", "gitquill-commit-*.txt")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(message); err != nil {
		tmpFile.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to write temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to close temp file")
	}

	if err := editor.Open(tmpPath); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "editor failed")
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read edited file")
	}

	// An untouched draft means the user cancelled. Content equality is
	// the test; editors that rewrite identical bytes still count.
	if string(edited) == message {
		return &Result{Cancelled: true}, nil
	}

	final := strings.TrimSpace(string(edited))
	if final == "" {
		return nil, apperrors.NewEmptyCommitMessageError()
	}

	return &Result{Message: final}, nil
}

// ExecEditor invokes an external editor command on the file, inheriting
// the terminal, and blocks until the editor process exits.
type ExecEditor struct {
	Command string
}

// NewExecEditor resolves the editor command: explicit configuration
// first, then $EDITOR, then $VISUAL. Returns nil when none is set.
func NewExecEditor(configured string) *ExecEditor {
	command := configured
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = os.Getenv("VISUAL")
	}
	if command == "" {
		return nil
	}
	return &ExecEditor{Command: command}
}

// Open runs the editor on the given path.
func (e *ExecEditor) Open(path string) error {
	cmd := exec.Command(e.Command, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// InlineEditor edits the file through a huh text area, for environments
// without a configured external editor.
type InlineEditor struct{}

// Open reads the file, presents it in a text form, and writes the
// result back so the session sees the same file-based contract as an
// external editor.
func (e *InlineEditor) Open(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	edited := string(content)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Press Ctrl+D or Tab then Enter to save. Ctrl+C or Esc to cancel.").
				Value(&edited).
				CharLimit(0),
		),
	)

	if err := form.Run(); err != nil {
		// Treat an aborted form as "no edit" so the session cancels
		return nil
	}

	if edited == string(content) {
		return nil
	}

	return os.WriteFile(path, []byte(edited), 0600)
}
