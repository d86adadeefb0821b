package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gofastskill/fastskill/internal/app"
)

type updateOptions struct {
	Parallel int
}

func newUpdateCommand() *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update [skill...]",
		Short: "Re-resolve skills against the sources and refresh installs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "Number of parallel workers")
	_ = viper.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts updateOptions, ids []string) error {
	service := newAppService()
	result, err := service.Update(ctx, app.UpdateRequest{
		StartDir: workingDir(),
		Parallel: resolveInt(cmd, opts.Parallel, "parallel", "parallel"),
		IDs:      ids,
	})
	if err != nil {
		return err
	}
	for _, id := range result.Removed {
		fmt.Printf("removed orphan: %s\n", id)
	}
	printReport(result.Report)
	return reportError(result.Report)
}
