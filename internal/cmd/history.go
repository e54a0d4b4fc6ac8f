// Package cmd contains the CLI command definitions for gitquill.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/pkg/config"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/history"
)

// NewHistoryCmd creates the history command with its subcommands.
func NewHistoryCmd() *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously generated commit messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newHistoryManager()
			if err != nil {
				return err
			}

			entries, err := mgr.List(limit)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to read history")
			}
			if len(entries) == 0 {
				fmt.Println("No history yet.")
				return nil
			}

			for _, entry := range entries {
				status := "draft"
				if entry.Committed {
					status = "committed"
				}
				fmt.Printf("%s  %s  %s (%s)\n    %s\n",
					entry.Timestamp.Format("2006-01-02 15:04"),
					status,
					entry.File,
					entry.Model,
					entry.Message)
			}
			return nil
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show (0 for all)")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newHistoryManager()
			if err != nil {
				return err
			}
			if err := mgr.Clear(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrFileSystemError, "failed to clear history")
			}
			fmt.Println("History cleared.")
			return nil
		},
	})

	return historyCmd
}

// newHistoryManager builds the file-backed history manager from settings.
func newHistoryManager() (history.Manager, error) {
	settingsMgr, err := config.NewManager("")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create settings manager")
	}
	settings, err := settingsMgr.Load()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load settings")
	}
	return history.NewFileManager(settings.History.FilePath, settings.History.MaxEntries), nil
}
