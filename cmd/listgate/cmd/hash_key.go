package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solawi-gate/listgate/internal/domain/principal"
)

var hashKeyCmd = &cobra.Command{
	Use:   "hash-key [credential]",
	Short: "Generate an argon2id hash for an admin credential",
	Long: `Generate an argon2id hash of an admin bearer credential for use in
config.

The output is a PHC-format string that can be appended directly to
ADMIN_CREDENTIAL_HASHES (or the config file's admin_credential_hashes
list). A caller presenting the raw credential over "Authorization: Bearer
<credential>" resolves to an admin principal when it verifies against any
configured hash.

Example:
  listgate hash-key "my-admin-credential"

Security note: the credential will appear in shell history. Consider
clearing history after use or passing it via an environment variable:
  listgate hash-key "$ADMIN_CREDENTIAL"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := principal.HashCredential(args[0])
		if err != nil {
			return fmt.Errorf("hash credential: %w", err)
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashKeyCmd)
}
