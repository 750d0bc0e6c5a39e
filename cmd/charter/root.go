package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aretw0/charter/internal/config"
	"github.com/aretw0/charter/internal/logging"
	"github.com/spf13/cobra"
)

// defaultConfigFile is read when present and no --config is given.
const defaultConfigFile = "charter.yaml"

var rootCmd = &cobra.Command{
	Use:   "charter",
	Short: "Charter is a Telegram bot that fills boat rental cards",
	Long: `Charter walks a manager through a boat rental booking one question at a time
and sends back the filled-in PDF card. Configuration comes from charter.yaml and
CHARTER_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigFile, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the configuration named by --config. The default file is optional.
func loadConfig(cmd *cobra.Command) config.Config {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	exitOnError("loading configuration", err)

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

func exitOnError(what string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
