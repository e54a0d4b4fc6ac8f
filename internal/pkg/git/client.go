// Package git provides Git operations for gitquill.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for git commands.
	GitCommandTimeout = 10 * time.Second
)

// FileState classifies the pending change of a single file.
type FileState int

const (
	StateUntracked FileState = iota
	StateAdded
	StateModified
	StateUnchanged
)

// String returns the string representation of FileState.
func (s FileState) String() string {
	switch s {
	case StateUntracked:
		return "untracked"
	case StateAdded:
		return "added"
	case StateModified:
		return "modified"
	case StateUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Diff holds the diff text for one file together with its change kind.
// For newly added files the text is the file's entire current content;
// for modified files it is the textual patch for that path.
type Diff struct {
	Path  string
	State FileState
	Text  string
}

// Client defines the interface for Git operations.
type Client interface {
	IsRepository(ctx context.Context) error
	IsTracked(ctx context.Context, path string) (bool, error)
	Classify(ctx context.Context, path string) (FileState, error)
	DiffFile(ctx context.Context, path string) (*Diff, error)
	StageFile(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
	CurrentBranch(ctx context.Context) (string, error)
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClient creates a new DefaultClient.
func NewClient() *DefaultClient {
	return &DefaultClient{}
}

// NewClientWithWorkDir creates a new DefaultClient with a specific working directory.
func NewClientWithWorkDir(workDir string) *DefaultClient {
	return &DefaultClient{workDir: workDir}
}

// IsRepository verifies the working directory is inside a git repository.
func (c *DefaultClient) IsRepository(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewNotARepositoryError(err).WithSuggestion(
			strings.TrimSpace(string(output)))
	}
	return nil
}

// IsTracked reports whether the path is known to the git index.
func (c *DefaultClient) IsTracked(ctx context.Context, path string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--error-unmatch", "--", path)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, apperrors.NewTimeoutError(ctx.Err())
		}
		// Exit code 1 means the path is not in the index
		if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				return false, nil
			}
		}
		return false, apperrors.NewGitError(err, "")
	}
	return true, nil
}

// Classify determines the pending-change state of a single path using
// git status porcelain output.
func (c *DefaultClient) Classify(ctx context.Context, path string) (FileState, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain", "--", path)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return StateUnchanged, apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return StateUnchanged, apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return StateUnchanged, apperrors.NewGitError(err, "")
	}

	return parseStatusLine(string(output)), nil
}

// parseStatusLine maps a porcelain status line to a FileState.
// An empty line means the path has no pending changes.
func parseStatusLine(line string) FileState {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return StateUnchanged
	}
	if len(line) < 2 {
		return StateUnchanged
	}

	code := line[:2]
	switch {
	case code == "??":
		return StateUntracked
	case code[0] == 'A':
		return StateAdded
	default:
		// Renames and copies (R/C) fold into modified: the working-tree
		// diff for the new path is empty, and the HEAD fallback renders
		// the path as a full new-file patch, which is what the generator
		// should see.
		return StateModified
	}
}

// DiffFile obtains the diff text for a single path. Newly added files
// have no baseline, so their diff is the full current file content.
// Modified files get the working-tree patch, falling back to the
// HEAD patch when the change is already staged.
func (c *DefaultClient) DiffFile(ctx context.Context, path string) (*Diff, error) {
	state, err := c.Classify(ctx, path)
	if err != nil {
		return nil, err
	}

	diff := &Diff{Path: path, State: state}

	switch state {
	case StateAdded:
		fullPath := path
		if c.workDir != "" {
			fullPath = filepath.Join(c.workDir, path)
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read new file")
		}
		diff.Text = string(content)

	case StateModified:
		text, err := c.diffOutput(ctx, path, false)
		if err != nil {
			return nil, err
		}
		if text == "" {
			// Change is staged; diff against HEAD instead of the index
			text, err = c.diffOutput(ctx, path, true)
			if err != nil {
				return nil, err
			}
		}
		diff.Text = text
	}

	return diff, nil
}

// diffOutput runs git diff for a single path, optionally against HEAD.
func (c *DefaultClient) diffOutput(ctx context.Context, path string, againstHead bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	args := []string{"diff"}
	if againstHead {
		args = append(args, "HEAD")
	}
	args = append(args, "--", path)

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", apperrors.NewGitError(err, string(exitErr.Stderr))
		}
		return "", apperrors.NewGitError(err, "")
	}

	return string(output), nil
}

// StageFile stages exactly the given path into the index.
func (c *DefaultClient) StageFile(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "add", "--", path)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// Commit executes a git commit with the given message.
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.NewTimeoutError(ctx.Err())
		}
		return apperrors.NewGitError(err, string(output))
	}
	return nil
}

// CurrentBranch returns the name of the current branch.
func (c *DefaultClient) CurrentBranch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.NewTimeoutError(ctx.Err())
		}
		return "", apperrors.NewGitError(err, "")
	}

	return strings.TrimSpace(string(output)), nil
}
