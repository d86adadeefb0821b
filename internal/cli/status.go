package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gofastskill/fastskill/internal/app"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show locked skills and drift against the manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	service := newAppService()
	result, err := service.Status(ctx, app.StatusRequest{StartDir: workingDir()})
	if err != nil {
		return err
	}

	fmt.Printf("project: %s\n", result.ProjectRoot)
	fmt.Printf("skills directory: %s\n", result.SkillsDir)

	if len(result.Entries) == 0 {
		fmt.Println("no skills locked")
	}
	for _, entry := range result.Entries {
		state := "installed"
		switch {
		case !entry.Installed:
			state = "not installed"
		case entry.Modified:
			state = "modified"
		}
		fmt.Printf("  %s %s (source %s) [%s]\n",
			entry.Entry.ID, entry.Entry.Version, entry.Entry.SourceName, state)
	}

	for _, drift := range result.Drifts {
		fmt.Printf("drift: %s (%s)\n", drift.ID, drift.Kind)
	}
	return nil
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		if value != 0 {
			return value
		}
		return viper.GetInt(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || name == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
