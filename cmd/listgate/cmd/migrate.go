package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/sqlstore"
	"github.com/solawi-gate/listgate/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the store schema without starting the server",
	Long: `Open the configured store and apply its schema, then exit.

sqlstore.Open already applies the schema on every startup (CREATE TABLE
IF NOT EXISTS, so it is idempotent); this command exists to let an
operator provision a fresh database, or confirm STORE_URI is reachable,
without also binding the hook/sync listener.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	st, err := sqlstore.Open(cfg.StoreURI, logger, sqlstore.WithGatewayIdentity(cfg.StoreModuleName))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	fmt.Printf("schema applied: %s\n", cfg.StoreURI)
	return nil
}
