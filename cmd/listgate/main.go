// Command listgate runs the community mailing-list gateway: the MTA hook
// and account-sync HTTP listener, its admin read/write API, and the
// supporting CLI (hash-key, migrate, version).
package main

import "github.com/solawi-gate/listgate/cmd/listgate/cmd"

func main() {
	cmd.Execute()
}
