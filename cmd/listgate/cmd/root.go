// Package cmd provides the CLI commands for listgate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solawi-gate/listgate/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "listgate",
	Short: "listgate - community mailing-list SMTP policy gateway",
	Long: `listgate decides accept/reject/quarantine for inbound SMTP
connections on behalf of a community mailing-list MTA, and keeps the
mailing-list membership in sync with an external membership database.

Quick start:
  1. Create a config file: listgate.yaml
  2. Run: listgate start

Configuration:
  Config is loaded from listgate.yaml in the current directory,
  $HOME/.listgate/, or /etc/listgate/.

  Environment variables override config values directly (unprefixed),
  e.g. STORE_URI=/var/lib/listgate/store.db.

Commands:
  start          Start the hook/sync listener and admin API
  migrate        Apply the store schema without starting the server
  hash-key       Generate an argon2id hash for an admin credential
  version        Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./listgate.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
