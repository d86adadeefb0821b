package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofastskill/fastskill/internal/app"
	"github.com/gofastskill/fastskill/internal/types"
)

func newSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage repository sources",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured sources in priority order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSourcesList(cmd.Context())
		},
	})
	return cmd
}

func runSourcesList(ctx context.Context) error {
	service := newAppService()
	result, err := service.Sources(ctx, app.SourcesRequest{StartDir: workingDir()})
	if err != nil {
		return err
	}
	if len(result.Sources) == 0 {
		fmt.Println("no sources configured")
		return nil
	}
	for _, source := range result.Sources {
		fmt.Printf("  [%d] %s (%s) %s\n", source.Priority, source.Name, source.Type, sourceLocation(source))
	}
	return nil
}

func sourceLocation(source types.RepositorySource) string {
	if source.Type == types.SourceTypeLocal {
		return source.Path
	}
	return source.URL
}
