// Package cmd wires the command line: serve, preview and status.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/salon-onboarding-mcp/pkg/config"
	logx "github.com/tanpawarit/salon-onboarding-mcp/pkg/logger"
)

func NewRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "salon-onboarding",
		Short:         "MCP tool server for Altegio salon setup and onboarding",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logx.Init(*logCfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env when present)")

	root.AddCommand(
		newServeCommand(),
		newPreviewCommand(),
		newStatusCommand(),
	)
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
