package main

import (
	"fmt"
	"os"

	"compsite/config"
	"compsite/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "compsite",
	Short:         "Promotional competitions API",
	Long:          `Serves promotional competitions, their puzzles and their images.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		_, err := logging.Init(config.LogLevel, config.IsDevelopment())
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, slugCmd, hashAnswerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
