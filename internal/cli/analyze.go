package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type analyzeOptions struct {
	ProjectPath string
}

func newAnalyzeCommand() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan a project directory for declared dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectPath, "path", "", "Project directory (default: current directory)")
	_ = viper.BindPFlag("path", cmd.Flags().Lookup("path"))
	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, opts analyzeOptions) error {
	service := newAppService()
	project, err := service.AnalyzeProject(ctx, resolveString(cmd, opts.ProjectPath, "path", "path"))
	if err != nil {
		return err
	}
	return service.Reports.Write(os.Stdout, outputFormat(), project)
}
