package commands

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/opsdrift/retentiond/internal/config"
	"github.com/opsdrift/retentiond/internal/diskstat"
	"github.com/opsdrift/retentiond/internal/storage"
	"github.com/opsdrift/retentiond/internal/sweeper"
)

func newSweepCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one retention pass over the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(configPath)
			if err != nil {
				logError(cmd.ErrOrStderr(), err)
				return newExitError(exitCodeUsage, err)
			}

			logger := log.New(cmd.OutOrStdout(), "", log.LstdFlags)
			if err := executeRun(cmd.Context(), logger, cfg, diskstat.New(), dryRun); err != nil {
				logError(cmd.ErrOrStderr(), err)
				if errors.Is(err, sweeper.ErrRootMissing) {
					return newExitError(exitCodeRootMissing, err)
				}
				return newExitError(exitCodeUsage, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate and log deletions without performing them")
	return cmd
}

// executeRun performs one complete classify-and-sweep cycle. It is the
// shared core of the sweep command and every daemon tick.
func executeRun(ctx context.Context, logger *log.Logger, cfg *config.Config, disk diskstat.Provider, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return err
	}

	// A momentary disk-usage failure must not block the run; fall back
	// to zero pressure, which selects the most conservative window.
	percent := 0
	if usage, err := disk.Usage(cfg.DataPath); err != nil {
		logger.Printf("WARN: disk usage query failed, assuming low pressure: %v", err)
	} else {
		percent = usage.UsedPercent
	}

	pol := table.Classify(percent)
	logger.Printf("disk usage %d%% (tier %s): general retention %s, hot retention %s",
		percent, pol.Tier, humanDuration(pol.General), humanDuration(pol.Hot))

	excl := sweeper.NewExclusions(cfg.Exclusions)
	if err := excl.LoadIgnoreFile(cfg.DataPath); err != nil {
		logger.Printf("WARN: %v", err)
	}

	var archiver sweeper.Archiver
	if cfg.Archive.Enabled && !dryRun {
		a, err := storage.NewArchiver(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			return fmt.Errorf("configure archive storage: %w", err)
		}
		archiver = a
	}

	s := sweeper.New(sweeper.Options{
		Root:       cfg.DataPath,
		HotSubdir:  cfg.HotSubdir,
		Exclusions: excl,
		Archiver:   archiver,
		DryRun:     dryRun,
		Logger:     logger,
	})

	report, err := s.Sweep(ctx, pol)
	if err != nil {
		return err
	}

	logger.Printf("sweep complete: %s", report.Summary())
	return nil
}
