package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shutdownassistant/internal/container"
	"shutdownassistant/internal/infrastructure/config"
	appLogger "shutdownassistant/internal/pkg/logger"
)

const appName = "ShutdownAssistant"

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "assistant",
	Short:         "Schedule or cancel a Windows shutdown at a time of day",
	Long:          "Shutdown Assistant arms the OS shutdown countdown for a time of day, serves a local HTTP API and an optional LINE bot.",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "history database path (env ASSISTANT_DB_PATH)")
	rootCmd.PersistentFlags().String("config-file", "", "preference file path (env ASSISTANT_CONFIG_FILE)")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(historyCmd)
}

// flagKeys maps command-line flags to settings keys.
var flagKeys = map[string]string{
	"host":        config.KeyHost,
	"port":        config.KeyPort,
	"db":          config.KeyDBPath,
	"config-file": config.KeyConfigFile,
}

// loadSettings merges cmd's flags, the environment and the defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := config.NewViper()
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}
	return config.LoadSettings(v, appName)
}

// buildContainer wires the services for cmd.
func buildContainer(cmd *cobra.Command) (*container.Container, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return container.New(container.Options{
		AppName:  appName,
		Settings: settings,
		Logger:   appLogger.New(),
	})
}
