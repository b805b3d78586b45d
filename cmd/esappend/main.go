// Package main implements the esappend CLI, which sends log events through
// the esappender pipeline and inspects its configuration.
package main

import (
	"fmt"
	"os"

	"github.com/downfy/esappender"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "esappend",
		Short:   "Send log events to Elasticsearch through esappender",
		Long:    `esappend drives the esappender log appender from the command line.`,
		Version: esappender.Version,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("env-file", "", ".env file to load before reading the environment")

	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(configCmd())

	return rootCmd
}

// loadConfig resolves the appender configuration from --config, --env-file
// or the environment, in that order of preference.
func loadConfig(cmd *cobra.Command) (*esappender.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	switch {
	case configPath != "":
		return esappender.LoadConfigFile(configPath)
	case envFile != "":
		return esappender.LoadConfigWithEnvFile(envFile)
	default:
		return esappender.LoadConfig()
	}
}

// configCmd returns the command printing the effective configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			password := ""
			if cfg.Password != "" {
				password = "********"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "url:              %s\n", cfg.BaseURL())
			fmt.Fprintf(out, "transport:        %s\n", cfg.Transport)
			fmt.Fprintf(out, "nodes:            %v\n", cfg.Addresses())
			fmt.Fprintf(out, "cluster:          %s\n", cfg.ClusterName)
			fmt.Fprintf(out, "user:             %s\n", cfg.User)
			fmt.Fprintf(out, "password:         %s\n", password)
			fmt.Fprintf(out, "index:            %s\n", cfg.Index)
			fmt.Fprintf(out, "type:             %s\n", cfg.Type)
			fmt.Fprintf(out, "application:      %s\n", cfg.ApplicationName)
			fmt.Fprintf(out, "host name:        %s\n", cfg.HostName)
			fmt.Fprintf(out, "threshold:        %s\n", cfg.Threshold)
			fmt.Fprintf(out, "timeout:          %s\n", cfg.Timeout)
			fmt.Fprintf(out, "shutdown timeout: %s\n", cfg.ShutdownTimeout)
			return nil
		},
	}
}
