package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"goship/config"
	"goship/storage"
)

var templatesDBPath string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List saved header templates",
	Long: `List the header templates saved for the configured organization.

Each template is keyed by the signature of its normalized header layout; an
upload whose headers produce the same signature reuses the stored mapping
without calling the mapping engine.`,
	Example: `
  goship templates --db ./goship.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(templatesDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.ListByOrg(cmd.Context(), cfg.Org.ID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("No templates saved yet. Use: goship import --save-template")
			return nil
		}

		for _, tpl := range list {
			fmt.Printf("%-10s %-30s columns: %d, mapped: %d, updated: %s\n",
				tpl.Fingerprint,
				tpl.Name,
				len(tpl.Headers),
				len(tpl.FieldMap),
				tpl.UpdatedAt.Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVar(&templatesDBPath, "db", "./goship.db", "Path to local SQLite database")
}
