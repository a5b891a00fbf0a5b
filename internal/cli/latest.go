package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type latestOptions struct {
	AllowPrerelease bool
}

func newLatestCommand() *cobra.Command {
	opts := latestOptions{}
	cmd := &cobra.Command{
		Use:   "latest <package>",
		Short: "Show the latest published version of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatest(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.AllowPrerelease, "prerelease", false, "Consider prerelease versions")
	return cmd
}

func runLatest(ctx context.Context, name string, opts latestOptions) error {
	service := newAppService()
	version, err := service.GetLatestVersion(ctx, name, opts.AllowPrerelease)
	if err != nil {
		return err
	}
	return service.Reports.Write(os.Stdout, outputFormat(), version)
}
