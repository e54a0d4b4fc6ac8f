// Package cmd contains the CLI command definitions for gitquill.
package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

// NewModelsCmd creates the models command as an alias for --list-models.
func NewModelsCmd(flags *RootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models your endpoint offers",
		Long: `List the model identifiers available from the configured inference
endpoint, in the order the API returns them.

This is equivalent to running 'gitquill --list-models'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)

			aiClient, err := newAIClient(flags)
			if err != nil {
				return err
			}
			return printModels(ctx, aiClient)
		},
	}
}
