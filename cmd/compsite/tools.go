package main

import (
	"fmt"

	"compsite/database"
	"compsite/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitDB(); err != nil {
			return err
		}
		database.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "database schema is up to date")
		return nil
	},
}

var slugCmd = &cobra.Command{
	Use:   "slug <title>",
	Short: "Print the slug a competition title maps to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), utils.Slugify(args[0]))
		return nil
	},
}

var hashAnswerCmd = &cobra.Command{
	Use:   "hash-answer <answer>",
	Short: "Print the stored digest of a puzzle answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), utils.HashAnswer(args[0]))
		return nil
	},
}
