package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	retentiond "github.com/opsdrift/retentiond"
	"github.com/opsdrift/retentiond/internal/config"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a retentiond.yml configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runInit(cmd)
		},
	}
}

func runInit(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	targetPath := filepath.Join(wd, config.DefaultFileName)
	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("%s already exists", config.DefaultFileName)
	}

	if err := os.WriteFile(targetPath, retentiond.ConfigTemplate(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.DefaultFileName, err)
	}

	logInfo(cmd.OutOrStdout(), fmt.Sprintf("Created %s. Set data_path before running a sweep.", config.DefaultFileName))
	return nil
}
