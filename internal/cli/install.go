package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gofastskill/fastskill/internal/app"
	"github.com/gofastskill/fastskill/internal/types"
)

type installOptions struct {
	Parallel int
	Only     []string
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install declared skills into the skills directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "Number of parallel workers")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Install only the named skills")
	_ = viper.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, opts installOptions) error {
	service := newAppService()
	result, err := service.Install(ctx, app.InstallRequest{
		StartDir: workingDir(),
		Parallel: resolveInt(cmd, opts.Parallel, "parallel", "parallel"),
		Only:     opts.Only,
	})
	if err != nil {
		return err
	}
	printReport(result.Report)
	return reportError(result.Report)
}

func printReport(report types.Report) {
	for _, id := range report.Succeeded {
		fmt.Printf("installed: %s\n", id)
	}
	for _, id := range report.Skipped {
		fmt.Printf("up to date: %s\n", id)
	}
	for _, failure := range report.SourceFailures {
		fmt.Printf("source unavailable: %s (%s)\n", failure.SourceName, failure.Message)
	}
	for _, failure := range report.Failed {
		fmt.Printf("failed: %s at %s: %s\n", failure.ID, failure.Stage, failure.Message)
	}
	if report.Status == types.StatusNoDependencies {
		fmt.Println("no skills declared")
	}
}

// reportError turns a partial failure into a non-zero exit without
// discarding what already got printed.
func reportError(report types.Report) error {
	if report.Status != types.StatusPartialFailure {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%d of %d skills failed", len(report.Failed),
			len(report.Failed)+len(report.Succeeded)+len(report.Skipped)))
}
