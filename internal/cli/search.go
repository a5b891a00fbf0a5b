package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type searchOptions struct {
	Limit         int
	PythonVersion string
}

func newSearchCommand() *cobra.Command {
	opts := searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the package index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "Maximum number of results")
	cmd.Flags().StringVar(&opts.PythonVersion, "python-version", "", "Keep only packages supporting this Python version")
	return cmd
}

func runSearch(ctx context.Context, query string, opts searchOptions) error {
	service := newAppService()
	results, err := service.SearchPackages(ctx, query, opts.Limit, opts.PythonVersion)
	if err != nil {
		return err
	}
	return service.Reports.Write(os.Stdout, outputFormat(), results)
}
