package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opsdrift/retentiond/internal/config"
	"github.com/opsdrift/retentiond/internal/diskstat"
)

func newPolicyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policy [usage-percent]",
		Short: "Show the pressure tiers and the policy for a usage level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runPolicy(cmd, args)
		},
	}
}

func runPolicy(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return err
	}

	var percent int
	if len(args) == 1 {
		percent, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("parse usage percent %q: %w", args[0], err)
		}
	} else {
		usage, err := diskstat.New().Usage(cfg.DataPath)
		if err != nil {
			logWarning(cmd.ErrOrStderr(), fmt.Sprintf("disk usage query failed, showing 0%%: %v", err))
		} else {
			percent = usage.UsedPercent
			logInfo(out, fmt.Sprintf("current usage of %s: %d%%", cfg.DataPath, percent))
		}
	}

	logInfo(out, "general retention tiers:")
	for _, band := range table.General {
		fmt.Fprintf(out, "  %-10s usage >= %3d%%  retain %s\n",
			band.Name, band.MinUsage, subtleStyle.Sprint(humanDuration(band.Retention)))
	}
	logInfo(out, "hot subdirectory tiers:")
	for _, band := range table.Hot {
		fmt.Fprintf(out, "  %-10s usage >= %3d%%  retain %s\n",
			"", band.MinUsage, subtleStyle.Sprint(humanDuration(band.Retention)))
	}

	pol := table.Classify(percent)
	logInfo(out, fmt.Sprintf("at %d%% usage (tier %s): general retention %s, hot retention %s",
		percent, pol.Tier, humanDuration(pol.General), humanDuration(pol.Hot)))

	return nil
}
