package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type checkOptions struct {
	VersionSpec string
	ProjectPath string
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <package>",
		Short: "Check a package against the project's declared dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.VersionSpec, "spec", "", "Version specifier for the candidate")
	cmd.Flags().StringVar(&opts.ProjectPath, "path", "", "Project directory (default: current directory)")
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, name string, opts checkOptions) error {
	service := newAppService()
	report, err := service.CheckPackageCompatibility(ctx, name, opts.VersionSpec, resolveString(cmd, opts.ProjectPath, "path", "path"))
	if err != nil {
		return err
	}
	return service.Reports.Write(os.Stdout, outputFormat(), report)
}
