// Package app contains the application layer with workflow orchestration.
package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gitquill/gitquill/internal/pkg/ai"
	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/git"
	"github.com/gitquill/gitquill/internal/pkg/history"
	"github.com/gitquill/gitquill/internal/pkg/review"
	"github.com/gitquill/gitquill/internal/pkg/ui"
)

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	File   string
	Model  string
	DryRun bool
	Edit   bool
}

// CommitService orchestrates the single-file commit workflow:
// classify → diff → generate → review/edit → stage → commit.
type CommitService struct {
	gitClient  git.Client
	aiClient   ai.Client
	uiManager  ui.Manager
	editor     review.Editor
	historyMgr history.Manager
	settings   *config.Settings
}

// NewCommitService creates a new CommitService with explicit dependencies.
func NewCommitService(
	gitClient git.Client,
	aiClient ai.Client,
	uiManager ui.Manager,
	editor review.Editor,
	historyMgr history.Manager,
	settings *config.Settings,
) *CommitService {
	return &CommitService{
		gitClient:  gitClient,
		aiClient:   aiClient,
		uiManager:  uiManager,
		editor:     editor,
		historyMgr: historyMgr,
		settings:   settings,
	}
}

// Run executes the commit workflow for a single file. Benign early
// exits (untracked file, no changes, cancelled edit) return nil so the
// process exits 0 without side effects.
func (s *CommitService) Run(ctx context.Context, opts *CommitOptions) error {
	if opts == nil || opts.File == "" {
		return apperrors.New(apperrors.ErrInvalidArguments, "a target file is required")
	}

	if err := s.gitClient.IsRepository(ctx); err != nil {
		return err
	}

	tracked, err := s.gitClient.IsTracked(ctx, opts.File)
	if err != nil {
		return err
	}
	if !tracked {
		s.uiManager.ShowInfo(fmt.Sprintf("%q is not tracked by git. Nothing to commit.", opts.File))
		return nil
	}

	diff, err := s.gitClient.DiffFile(ctx, opts.File)
	if err != nil {
		return err
	}
	if diff.State == git.StateUnchanged || strings.TrimSpace(diff.Text) == "" {
		s.uiManager.ShowInfo(fmt.Sprintf("No changes detected for %q.", opts.File))
		return nil
	}

	// The model must be in the listing before any completion call.
	if err := s.validateModel(ctx, opts.Model); err != nil {
		return err
	}

	message, err := s.generate(ctx, diff, opts.Model)
	if err != nil {
		return err
	}

	s.uiManager.DisplayMessage(opts.File, message)

	if opts.DryRun {
		s.recordHistory(opts, message, false)
		return nil
	}

	if opts.Edit {
		result, err := review.Edit(message, s.editor)
		if err != nil {
			return err
		}
		if result.Cancelled {
			s.uiManager.ShowInfo("Message left unchanged. Commit cancelled.")
			return nil
		}
		message = result.Message
	}

	if err := s.commit(ctx, opts.File, message); err != nil {
		return err
	}

	s.recordHistory(opts, message, true)
	return nil
}

// validateModel checks the requested model against the endpoint's listing.
func (s *CommitService) validateModel(ctx context.Context, model string) error {
	spinner := s.uiManager.ShowSpinner("Checking available models...")
	spinner.Start()
	models := s.aiClient.ListModels(ctx)
	spinner.Stop()

	if !slices.Contains(models, model) {
		return apperrors.NewModelUnavailableError(model)
	}
	return nil
}

// generate asks the inference API for a commit message draft.
func (s *CommitService) generate(ctx context.Context, diff *git.Diff, model string) (string, error) {
	spinner := s.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	defer spinner.Stop()

	message, err := s.aiClient.GenerateCommitMessage(ctx, &ai.GenerateRequest{
		Diff:  diff,
		Model: model,
	})
	if err != nil {
		return "", err
	}
	if message == "" {
		return "", apperrors.New(apperrors.ErrCompletionFailed, "the API returned an empty message")
	}
	return message, nil
}

// commit stages exactly the target file and creates the commit.
func (s *CommitService) commit(ctx context.Context, file, message string) error {
	spinner := s.uiManager.ShowSpinner("Committing...")
	spinner.Start()

	if err := s.gitClient.StageFile(ctx, file); err != nil {
		spinner.Stop()
		return err
	}
	if err := s.gitClient.Commit(ctx, message); err != nil {
		spinner.Stop()
		return err
	}
	spinner.Stop()

	branch, err := s.gitClient.CurrentBranch(ctx)
	if err != nil {
		branch = "HEAD"
	}
	s.uiManager.ShowSuccess(fmt.Sprintf("Committed %q on %s: %s", file, branch, firstLine(message)))
	return nil
}

// recordHistory saves the generated message; failures never fail the run.
func (s *CommitService) recordHistory(opts *CommitOptions, message string, committed bool) {
	if s.historyMgr == nil || s.settings == nil || !s.settings.History.Enabled {
		return
	}

	entry := &history.Entry{
		File:      opts.File,
		Model:     opts.Model,
		Message:   message,
		Committed: committed,
	}
	if err := s.historyMgr.Save(entry); err != nil {
		apperrors.Warn("failed to save history: %v", err)
	}
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}
