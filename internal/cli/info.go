package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

type infoOptions struct {
	VersionSpec string
}

func newInfoCommand() *cobra.Command {
	opts := infoOptions{}
	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show package metadata, locally installed or from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.VersionSpec, "spec", "", "Version specifier (e.g. \">=2.0,<3.0\")")
	return cmd
}

func runInfo(ctx context.Context, name string, opts infoOptions) error {
	service := newAppService()
	result, err := service.GetPackageMetadata(ctx, name, opts.VersionSpec)
	if err != nil {
		return err
	}
	return service.Reports.Write(os.Stdout, outputFormat(), result)
}
