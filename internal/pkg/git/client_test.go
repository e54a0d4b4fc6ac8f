// Package git provides Git operations for gitquill.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a git repository with one committed file and
// returns its path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	writeTestFile(t, dir, "tracked.txt", "line one\nline two\n")
	runGit(t, dir, "add", "tracked.txt")
	runGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, output)
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestIsRepository(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	assert.NoError(t, client.IsRepository(context.Background()))
}

func TestIsRepository_NotARepo(t *testing.T) {
	client := NewClientWithWorkDir(t.TempDir())

	err := client.IsRepository(context.Background())
	assert.Error(t, err)
}

func TestIsTracked(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)
	ctx := context.Background()

	tracked, err := client.IsTracked(ctx, "tracked.txt")
	assert.NoError(t, err)
	assert.True(t, tracked)

	writeTestFile(t, dir, "loose.txt", "not added\n")
	tracked, err = client.IsTracked(ctx, "loose.txt")
	assert.NoError(t, err)
	assert.False(t, tracked)
}

func TestClassify_Unchanged(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	state, err := client.Classify(context.Background(), "tracked.txt")
	assert.NoError(t, err)
	assert.Equal(t, StateUnchanged, state)
}

func TestClassify_Modified(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	writeTestFile(t, dir, "tracked.txt", "line one\nline two changed\n")

	state, err := client.Classify(context.Background(), "tracked.txt")
	assert.NoError(t, err)
	assert.Equal(t, StateModified, state)
}

func TestClassify_Added(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	writeTestFile(t, dir, "fresh.txt", "brand new\n")
	runGit(t, dir, "add", "fresh.txt")

	state, err := client.Classify(context.Background(), "fresh.txt")
	assert.NoError(t, err)
	assert.Equal(t, StateAdded, state)
}

func TestClassify_Untracked(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	writeTestFile(t, dir, "loose.txt", "not added\n")

	state, err := client.Classify(context.Background(), "loose.txt")
	assert.NoError(t, err)
	assert.Equal(t, StateUntracked, state)
}

func TestDiffFile_Modified(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	writeTestFile(t, dir, "tracked.txt", "line one\nline two changed\n")

	diff, err := client.DiffFile(context.Background(), "tracked.txt")
	require.NoError(t, err)
	assert.Equal(t, StateModified, diff.State)
	assert.Contains(t, diff.Text, "+line two changed")
	assert.Contains(t, diff.Text, "-line two")
}

func TestDiffFile_ModifiedAndStaged(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	writeTestFile(t, dir, "tracked.txt", "line one\nline two changed\n")
	runGit(t, dir, "add", "tracked.txt")

	// The working-tree diff is empty; the HEAD fallback must kick in.
	diff, err := client.DiffFile(context.Background(), "tracked.txt")
	require.NoError(t, err)
	assert.Equal(t, StateModified, diff.State)
	assert.Contains(t, diff.Text, "+line two changed")
}

func TestDiffFile_Added_ReturnsFullContent(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	content := "package main\n\nfunc main() {}\n"
	writeTestFile(t, dir, "fresh.go", content)
	runGit(t, dir, "add", "fresh.go")

	diff, err := client.DiffFile(context.Background(), "fresh.go")
	require.NoError(t, err)
	assert.Equal(t, StateAdded, diff.State)
	assert.Equal(t, content, diff.Text)
	assert.NotContains(t, diff.Text, "diff --git")
}

func TestDiffFile_StagedRename(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	runGit(t, dir, "mv", "tracked.txt", "renamed.txt")

	diff, err := client.DiffFile(context.Background(), "renamed.txt")
	require.NoError(t, err)
	assert.Equal(t, StateModified, diff.State)

	// The working-tree diff for the new path is empty; the HEAD fallback
	// shows the path's full content as a new-file patch.
	assert.Contains(t, diff.Text, "renamed.txt")
	assert.Contains(t, diff.Text, "+line one")
}

func TestDiffFile_Unchanged(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	diff, err := client.DiffFile(context.Background(), "tracked.txt")
	require.NoError(t, err)
	assert.Equal(t, StateUnchanged, diff.State)
	assert.Empty(t, diff.Text)
}

func TestStageFileAndCommit(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)
	ctx := context.Background()

	writeTestFile(t, dir, "tracked.txt", "line one\nline two changed\n")

	require.NoError(t, client.StageFile(ctx, "tracked.txt"))
	require.NoError(t, client.Commit(ctx, "update tracked file"))

	// The commit should contain exactly the staged file.
	cmd := exec.Command("git", "show", "--name-only", "--format=%s", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	require.NoError(t, err)
	assert.Contains(t, string(output), "update tracked file")
	assert.Contains(t, string(output), "tracked.txt")
}

func TestCurrentBranch(t *testing.T) {
	dir := setupTestRepo(t)
	client := NewClientWithWorkDir(dir)

	branch, err := client.CurrentBranch(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, branch)
	assert.False(t, strings.ContainsAny(branch, " \n"))
}

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want FileState
	}{
		{"empty output", "", StateUnchanged},
		{"untracked", "?? notes.txt\n", StateUntracked},
		{"staged new file", "A  fresh.go\n", StateAdded},
		{"staged new file with worktree edits", "AM fresh.go\n", StateAdded},
		{"worktree modification", " M main.go\n", StateModified},
		{"staged modification", "M  main.go\n", StateModified},
		{"staged and worktree modification", "MM main.go\n", StateModified},
		{"staged rename", "R  old.go -> new.go\n", StateModified},
		{"staged copy", "C  old.go -> copy.go\n", StateModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatusLine(tt.line))
		})
	}
}

func TestFileStateString(t *testing.T) {
	assert.Equal(t, "untracked", StateUntracked.String())
	assert.Equal(t, "added", StateAdded.String())
	assert.Equal(t, "modified", StateModified.String())
	assert.Equal(t, "unchanged", StateUnchanged.String())
	assert.Equal(t, "unknown", FileState(42).String())
}
