package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofastskill/fastskill/internal/app"
)

type removeOptions struct {
	KeepManifest bool
}

func newRemoveCommand() *cobra.Command {
	opts := removeOptions{}
	cmd := &cobra.Command{
		Use:   "remove <skill>",
		Short: "Uninstall a skill and drop its declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.KeepManifest, "keep-manifest", false, "Keep the declaration in skill-project.toml")
	return cmd
}

func runRemove(ctx context.Context, opts removeOptions, id string) error {
	service := newAppService()
	result, err := service.Remove(ctx, app.RemoveRequest{
		StartDir:     workingDir(),
		ID:           id,
		KeepManifest: opts.KeepManifest,
	})
	if err != nil {
		return err
	}
	if !result.RemovedInstall && !result.RemovedManifest {
		fmt.Printf("nothing to remove for %s\n", result.ID)
		return nil
	}
	fmt.Printf("removed: %s\n", result.ID)
	return nil
}
