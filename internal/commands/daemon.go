package commands

import (
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/opsdrift/retentiond/internal/config"
	"github.com/opsdrift/retentiond/internal/diskstat"
	"github.com/opsdrift/retentiond/internal/logging"
	"github.com/opsdrift/retentiond/internal/sweeper"
)

func newDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run sweeps on the configured schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runDaemon(cmd)
		},
	}
}

func runDaemon(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		logError(cmd.ErrOrStderr(), err)
		return newExitError(exitCodeUsage, err)
	}

	logger, closer := logging.New(cfg.Log)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Printf("retentiond starting: data_path=%s schedule=%q", cfg.DataPath, cfg.Schedule)

	// Overlapping ticks skip instead of racing on the same tree. A
	// missing data root is fatal and stops the daemon with a non-zero
	// exit; everything else is logged and retried on the next tick.
	var (
		runLock  sync.Mutex
		fatalErr error
	)
	tick := func() {
		if !runLock.TryLock() {
			logger.Printf("previous sweep still running, skipping this tick")
			return
		}
		defer runLock.Unlock()

		if err := executeRun(ctx, logger, cfg, diskstat.New(), false); err != nil {
			if errors.Is(err, sweeper.ErrRootMissing) {
				logger.Printf("FATAL: %v", err)
				fatalErr = err
				stop()
				return
			}
			logger.Printf("sweep failed: %v", err)
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule, tick); err != nil {
		err = fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
		logError(cmd.ErrOrStderr(), err)
		return newExitError(exitCodeUsage, err)
	}

	// First pass runs immediately; the schedule covers the rest.
	tick()

	if fatalErr == nil {
		scheduler.Start()
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}

	if fatalErr != nil {
		return newExitError(exitCodeRootMissing, fatalErr)
	}

	logger.Printf("retentiond stopped")
	return nil
}
