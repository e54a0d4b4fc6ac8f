// Package cmd contains the CLI command definitions for gitquill.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
	"github.com/gitquill/gitquill/internal/pkg/ai"
	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/git"
	"github.com/gitquill/gitquill/internal/pkg/history"
	"github.com/gitquill/gitquill/internal/pkg/review"
	"github.com/gitquill/gitquill/internal/pkg/ui"
)

// RootFlags holds the flags for the root command.
type RootFlags struct {
	Model      string
	ListModels bool
	DryRun     bool
	NoEdit     bool
	APIKey     string
	BaseURL    string
}

// NewRootCmd creates the root command for the gitquill CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &RootFlags{}

	rootCmd := &cobra.Command{
		Use:   "gitquill <file>",
		Short: "Draft a commit message for one file with AI",
		Long: `gitquill drafts a commit message for a single file's pending changes.

It computes the file's diff (or full content for newly added files),
sends it to an OpenAI-compatible chat-completion endpoint, opens the
draft in your editor for review, then stages and commits the file.

Credentials come from ~/.config/gitquill/secrets.json (api_key,
base_url) or the GITQUILL_API_KEY / GITQUILL_BASE_URL environment
variables.

Examples:
  gitquill main.go                    # Generate, edit, commit
  gitquill main.go --no-edit          # Commit the draft as-is
  gitquill main.go --dry-run          # Print the draft only
  gitquill --list-models              # Show available models`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.ListModels {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags)
		},
	}

	rootCmd.SetVersionTemplate(`gitquill {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flags.APIKey, "api-key", "", "API key (overrides secrets file and environment)")
	rootCmd.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "API base URL (overrides secrets file and environment)")

	rootCmd.Flags().StringVar(&flags.Model, "model", "", "Model to use (default from config, falling back to "+ai.DefaultModel+")")
	rootCmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models and exit")
	rootCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate and print the message without committing")
	rootCmd.Flags().BoolVar(&flags.NoEdit, "no-edit", false, "Skip the interactive edit step")

	rootCmd.AddCommand(NewModelsCmd(flags))
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

// runRoot executes the single-file commit workflow.
func runRoot(cmd *cobra.Command, args []string, flags *RootFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	verbose, _ := cmd.Flags().GetBool("verbose")
	apperrors.SetVerbose(verbose)

	aiClient, err := newAIClient(flags)
	if err != nil {
		return err
	}

	if flags.ListModels {
		return printModels(ctx, aiClient)
	}

	settingsMgr, err := config.NewManager("")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create settings manager")
	}
	if flags.Model != "" {
		settingsMgr.SetOverride("model", flags.Model)
	}
	settings, err := settingsMgr.Load()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load settings")
	}
	if settings.Model == "" {
		settings.Model = ai.DefaultModel
	}

	if verbose {
		apperrors.Info("Using model: %s", settings.Model)
		if flags.DryRun {
			apperrors.Info("Dry-run mode enabled")
		}
	}

	gitClient := git.NewClient()

	uiMgr := ui.Manager(ui.NewDefaultManager(settings.UI.ColorEnabled))
	if flags.DryRun {
		uiMgr = ui.NewQuietManager()
	}

	var editor review.Editor = &review.InlineEditor{}
	if execEditor := review.NewExecEditor(settings.UI.Editor); execEditor != nil {
		editor = execEditor
	}

	var historyMgr history.Manager
	if settings.History.Enabled {
		historyMgr = history.NewFileManager(settings.History.FilePath, settings.History.MaxEntries)
	}

	service := app.NewCommitService(gitClient, aiClient, uiMgr, editor, historyMgr, settings)

	return service.Run(ctx, &app.CommitOptions{
		File:   args[0],
		Model:  settings.Model,
		DryRun: flags.DryRun,
		Edit:   !flags.NoEdit,
	})
}

// newAIClient loads credentials and builds the inference API client.
func newAIClient(flags *RootFlags) (*ai.OpenAIClient, error) {
	creds, err := config.LoadCredentials(flags.APIKey, flags.BaseURL)
	if err != nil {
		return nil, err
	}

	apperrors.Debug("Using endpoint: %s (key %s)", creds.BaseURL, apperrors.MaskAPIKey(creds.APIKey))

	return ai.NewOpenAIClient(creds.APIKey, creds.BaseURL)
}

// printModels lists the available model identifiers, one per line.
func printModels(ctx context.Context, aiClient ai.Client) error {
	models := aiClient.ListModels(ctx)
	if len(models) == 0 {
		fmt.Println("No models available.")
		return nil
	}
	for _, m := range models {
		fmt.Printf("- %s\n", m)
	}
	return nil
}
