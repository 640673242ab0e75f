// Copyright (c) 2025 Ragctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"ragctl/cli/internal/config"
	"ragctl/cli/internal/dsn"
	apperrors "ragctl/cli/internal/errors"
	"ragctl/cli/internal/logging"
	"ragctl/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sqlInteractive bool
)

// sqlCmd represents the sql command for executing statements against the
// configured database. Without a query argument (or with --interactive) it
// opens a line-oriented session; with one it runs the statement once and
// exits with a status reflecting connect/execute success.
var sqlCmd = &cobra.Command{
	Use:   "sql [query]",
	Short: "Execute SQL against the configured PostgreSQL database",
	Long: `The sql command runs SQL statements against the database configured via
RAGCTL_DSN or DATABASE_URL. SELECT statements report the full row set; all
other statements report the driver status tag.

With no query argument, or with --interactive, an interactive session opens
with three meta-commands: .tables, .exit and .quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			pterm.Println("❌ ERROR: DATABASE_URL is not set")
			pterm.Println("   Set DATABASE_URL or RAGCTL_DSN to a postgres:// connection string")
			return apperrors.New(apperrors.ConfigError, "DATABASE_URL is not set")
		}

		normalized, err := dsn.Parse(cfg.DatabaseURL)
		if err != nil {
			pterm.Println("❌ Invalid database connection string.")
			if parseErr, ok := err.(*dsn.ParseError); ok {
				pterm.Println("   " + parseErr.Error())
			}
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sess := session.New(normalized)

		if sqlInteractive || len(args) == 0 {
			// Interactive failures are reported inside the loop and never
			// exit the process nonzero.
			return sess.RunInteractive(ctx, os.Stdin, os.Stdout)
		}

		if err := sess.Connect(ctx); err != nil {
			pterm.Println("❌ " + logging.PresentError("Connection failed", err))
			return err
		}
		pterm.Println("✅ Connected to database")
		defer func() {
			_ = sess.Disconnect(context.Background())
			pterm.Println("✅ Disconnected")
		}()

		res, err := sess.Execute(ctx, args[0])
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("Query failed", err))
			return err
		}
		res.Render(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)
	sqlCmd.Flags().BoolVarP(&sqlInteractive, "interactive", "i", false, "Run in interactive mode")
}
