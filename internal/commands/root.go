package commands

import "github.com/spf13/cobra"

var configPath string

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "retentiond",
		Short:         "Adaptive disk-retention daemon for a node data directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to retentiond.yml (default ./retentiond.yml)")

	root.AddCommand(newInitCommand())
	root.AddCommand(newSweepCommand())
	root.AddCommand(newDaemonCommand())
	root.AddCommand(newPolicyCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
