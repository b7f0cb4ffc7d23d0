package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watt-toolkit/spark/pkg/spark/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spark",
		Short: "Minimal HTTP/1.1 server over raw TCP",
		Long: `spark answers one HTTP/1.1 request per TCP connection, dispatching
to a fixed route table or to files under the configured static directories.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringP("config", "c", "", "YAML config file (defaults are used when empty)")
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading SPARK_* variables")

	root.AddCommand(newServeCmd(), newRoutesCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spark %s (commit: %s)\n", version, commit)
		},
	}
}

// loadConfig resolves the effective configuration: defaults, then the YAML
// file, then the dotenv file and SPARK_* variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if _, err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
