package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/argmesh/config"
	"github.com/hupe1980/argmesh/logging"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *logging.ArgMeshLogger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "argmesh",
		Short:         "Argument resolution for conversational commands",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Logging.Level = a.logLevel
			}
			logCfg, err := cfg.Logging.LoggerConfig()
			if err != nil {
				return fmt.Errorf("logging: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.NewLogger(logCfg).WithComponent("cli")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(newTypesCommand(a), newDemoCommand(a))
	return root
}
