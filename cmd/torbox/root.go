package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var outputFlag string

	ctx := newCommandContext(&configFlag, &outputFlag)

	rootCmd := &cobra.Command{
		Use:           "torbox",
		Short:         "TorBox debrid CLI",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parseOutputFormat(outputFlag); err != nil {
				return err
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", string(outputTable), fmt.Sprintf("Output format (%s, %s, %s)", outputTable, outputJSON, outputYAML))

	rootCmd.AddCommand(newTorrentsCommand(ctx))
	rootCmd.AddCommand(newUsenetCommand(ctx))
	rootCmd.AddCommand(newUserCommand(ctx))

	return rootCmd
}
