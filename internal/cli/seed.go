package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var seedCatalog string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog into an empty collection",
	Long: `Create the collection if needed and insert the catalog when it holds no records.
A collection that already has records is left as is; use reset to rebuild it.

Examples:
  winesearch seed
  winesearch seed --catalog "data/**/*.yaml"`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedCatalog, "catalog", "", "catalog file or glob (default from config, else built in)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedCatalog != "" {
		cfg.Catalog.Path = seedCatalog
	}

	cred, err := credential()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.collection.WithProgress(newProgress(os.Stderr, "Seeding"))
	n, err := svc.SeedIfEmpty(cmd.Context(), cred)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if n == 0 {
		count, err := a.collection.Count(cmd.Context())
		if err != nil {
			return err
		}
		showInfo(out, fmt.Sprintf("%s already holds %d records, nothing to seed.", a.collection.Name(), count))
		return nil
	}
	showSuccess(out, fmt.Sprintf("Seeded %d of %d catalog records into %s.", n, a.collection.CatalogSize(), a.collection.Name()))
	return nil
}
