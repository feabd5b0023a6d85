// Command catalogctl maintains the static catalog document and imports
// seller listings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "ShelfSync catalog tooling",
		Long: `catalogctl works on the static books document served to the storefront
and on the sellers' listings table.

  catalogctl generate --count 1000 --out books-database.json
  catalogctl correct --in books-database.json --price-rate 83
  catalogctl validate --in books-database.json
  catalogctl import --file listings.csv --seller seller@shelfsync.test`,
		SilenceUsage: true,
	}
	root.AddCommand(newImportCmd(), newCorrectCmd(), newValidateCmd(), newGenerateCmd())
	return root
}
