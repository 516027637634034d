package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/joshsymonds/dealflow/internal/importer"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Bulk-import investors from delimited text",
		Long: `Import investor records from a semicolon-delimited text file.

The first line is a header row naming the columns (name, classification,
type, sector, credit_equity, rating, justification, email, email2, phone,
link); every further line is one investor. Unrecognized headers are ignored
and missing columns default to empty. The whole file is committed as one
atomic batch: either every record imports or none do.

Example:
  dealflow import ~/Downloads/investors.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accountID, err := requireAccount(ctx, store)
			if err != nil {
				return err
			}

			if dryRun {
				parsed, err := importer.NewParser().Parse(accountID, string(content))
				if err != nil {
					return err
				}
				fmt.Printf("Would import %d investors:\n", len(parsed))
				for _, inv := range parsed {
					fmt.Printf("  - %s (%s, rating %d)\n", inv.Name, inv.Classification, inv.Rating)
				}
				return nil
			}

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Importing investors"),
				progressbar.OptionSpinnerType(14),
			)

			investors, err := importer.NewImporter(store).Import(ctx, accountID, string(content))
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d investors\n", len(investors))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview import without saving")

	return cmd
}
