package main

import (
	"github.com/spf13/cobra"

	"github.com/runtipios/firstboot/internal/buildconfig"
)

func newBuildConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-config [file]",
		Short: "Print the image build configuration as shell variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := buildconfig.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			config, err := buildconfig.Load(path)
			if err != nil {
				return err
			}
			return config.WriteShell(cmd.OutOrStdout())
		},
	}
}
