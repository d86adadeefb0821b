package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofastskill/fastskill/internal/app"
)

type addOptions struct {
	Constraint string
	Source     string
	NoInstall  bool
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add <skill>",
		Short: "Declare a skill dependency and install it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.Constraint, "version", "", "Version constraint (e.g. \">=1.0\")")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Pin resolution to a named source")
	cmd.Flags().BoolVar(&opts.NoInstall, "no-install", false, "Declare without installing")
	return cmd
}

func runAdd(ctx context.Context, opts addOptions, id string) error {
	service := newAppService()
	result, err := service.Add(ctx, app.AddRequest{
		StartDir:   workingDir(),
		ID:         id,
		Constraint: opts.Constraint,
		Source:     opts.Source,
		NoInstall:  opts.NoInstall,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added: %s (resolves to %s)\n", result.ID, result.Version)
	printReport(result.Report)
	return reportError(result.Report)
}
