package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runtipios/firstboot/internal/ledger"
)

func newStateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or advance the installation ledger",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the current installation phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			phase := ledger.New(cfg.StateFile).Read()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", phase)
			return nil
		},
	}

	var force bool
	set := &cobra.Command{
		Use:   "set <phase>",
		Short: "Record a new installation phase",
		Long: "Record a new installation phase. Phases are " +
			"not-started, portal, configure, install, starting and complete; going back requires --force.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger("state")
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			phase, err := ledger.ParsePhase(args[0])
			if err != nil {
				return err
			}
			if err := ledger.New(cfg.StateFile).Advance(phase, force); err != nil {
				return err
			}
			logger.Infof("installation phase is now %s", phase)
			return nil
		},
	}
	set.Flags().BoolVar(&force, "force", false, "allow moving to an earlier phase")

	cmd.AddCommand(get, set)
	return cmd
}
