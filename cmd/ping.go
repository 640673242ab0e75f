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

// pingCmd represents the ping command for verifying database connectivity.
// It connects, runs a trivial query, reports the server version and lists
// the tables in the public schema. The exit status reflects overall success.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify the configured database connection",
	Long: `The ping command connects to the database configured via RAGCTL_DSN or
DATABASE_URL, runs a test query, reports the PostgreSQL server version and
lists the tables in the public schema. It exits nonzero if any step fails.`,
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

		// Display connection info (masked)
		info, _ := dsn.ParseInfo(normalized)
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Database:   ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(info.Database))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connection: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(logging.Mask(normalized)))
		pterm.Println()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sess := session.New(normalized)
		if err := sess.Connect(ctx); err != nil {
			pterm.Println("❌ " + logging.PresentError("Connection failed", err))
			return err
		}
		defer sess.Disconnect(context.Background())
		pterm.Println("✅ Successfully connected to database")

		res, err := sess.Execute(ctx, "SELECT 1")
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("Test query failed", err))
			return err
		}
		pterm.Printf("✅ Query result: %v\n", res.Rows[0][0])

		res, err = sess.Execute(ctx, "SELECT version()")
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("Version query failed", err))
			return err
		}
		pterm.Printf("✅ PostgreSQL version: %v\n", res.Rows[0][0])

		tables, err := sess.Tables(ctx)
		if err != nil {
			pterm.Println("❌ " + logging.PresentError("Table listing failed", err))
			return err
		}
		pterm.Printf("✅ Tables in database: %d\n", len(tables))
		for _, name := range tables {
			pterm.Println("   - " + name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
