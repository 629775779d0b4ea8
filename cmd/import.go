package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"goship/config"
	"goship/internal/headernorm"
	"goship/mapping"
	"goship/reconcile"
	"goship/shipment"
	"goship/storage"
)

var (
	importInput        string
	importSheet        string
	importDBPath       string
	importServiceType  string
	importCommit       bool
	importSaveTemplate bool
	importTemplateName string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse a CSV/Excel shipment export and reconcile it against the local database",
	Long: `Read one source file, match its headers against saved templates, suggest a
column mapping, normalize each sampled row into a canonical shipment record,
infer pickup locations, and flag probable duplicates.

Nothing is persisted unless --commit is given. Duplicate rows are never
persisted; they are reported and skipped.

With --save-template the confirmed mapping is stored under the file's header
signature, so the next upload of the same layout skips mapping entirely.`,
	Example: `
  # Preview only
  goship import -i envios-marzo.xlsx

  # Pick a specific worksheet
  goship import -i envios-marzo.xlsx --sheet "Hoja2"

  # Persist parsed records
  goship import -i envios-marzo.csv --commit --db ./goship.db

  # Persist and remember the mapping for this layout
  goship import -i envios-marzo.xlsx --commit --save-template --template-name "Mensajería marzo"

  # Import with custom config file
  goship --configFile ./custom-goship.yaml import -i ./envios.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(importInput)
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		service, _, err := buildService(cmd.Context(), store, *cfg)
		if err != nil {
			return err
		}

		result, err := service.Run(cmd.Context(), reconcile.RunInput{
			Data:          data,
			Filename:      filepath.Base(importInput),
			Sheet:         importSheet,
			OrgID:         cfg.Org.ID,
			OrgName:       cfg.Org.Name,
			ServiceTypeID: importServiceType,
			MaxFileSize:   cfg.Import.MaxFileSizeBytes(),
		})
		if err != nil {
			return err
		}

		printImportSummary(result)

		if importSaveTemplate {
			name := importTemplateName
			if name == "" {
				name = filepath.Base(importInput)
			}
			tpl, err := service.Matcher().Save(cmd.Context(), cfg.Org.ID, name, result.Sheet.Headers, fieldMapFromMappings(result.Mappings), nil)
			if err != nil {
				return fmt.Errorf("save template: %w", err)
			}
			fmt.Printf("Template saved. Name: %s, Fingerprint: %s\n", tpl.Name, tpl.Fingerprint)
		}

		if !importCommit {
			fmt.Println("Preview only. Re-run with --commit to persist records.")
			return nil
		}

		records := make([]shipment.Record, 0, len(result.Rows))
		for _, row := range result.Rows {
			if row.Duplicate.IsDuplicate {
				continue
			}
			records = append(records, row.Record)
		}

		inserted, err := store.InsertRecords(cmd.Context(), records)
		if err != nil {
			return err
		}

		fmt.Printf("Import completed. Rows persisted: %d, Duplicates skipped: %d\n", inserted, result.Duplicates)
		return nil
	},
}

func printImportSummary(result *reconcile.Result) {
	fmt.Printf("Parsed input. Headers: %d, Total rows: %d, Sampled rows: %d\n",
		len(result.Sheet.Headers),
		result.Sheet.TotalRows,
		len(result.Sheet.SampleRows),
	)

	if result.Template != nil && result.Template.Exact != nil {
		fmt.Printf("Template matched: %s (fingerprint %s)\n", result.Template.Exact.Name, result.Template.Exact.Fingerprint)
		if result.Template.Note != "" {
			fmt.Printf("Note: %s\n", result.Template.Note)
		}
	}

	fmt.Printf("Mapping provider: %s\n", result.ProviderUsed)
	for _, m := range result.Mappings {
		fmt.Printf("  %-30s -> %-20s (%.2f)\n", m.SourceHeader, m.TargetField, m.Confidence)
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning [%s]: %s\n", w.Code, w.Message)
	}
	for _, w := range result.Sheet.Warnings {
		fmt.Printf("Row %d, column %q: %s\n", w.Row, w.Column, w.Message)
	}
	if result.Duplicates > 0 {
		fmt.Printf("Probable duplicates: %d\n", result.Duplicates)
		for _, row := range result.Rows {
			if row.Duplicate.IsDuplicate {
				fmt.Printf("  %s %s: %s\n", row.Record.TrackingCode, row.Record.RecipientName, row.Duplicate.Reason)
			}
		}
	}
}

// fieldMapFromMappings converts confirmed column mappings into the persisted
// template field map, keyed by normalized header. Ignored columns are left
// out; absence already means ignore on replay.
func fieldMapFromMappings(mappings []mapping.ColumnMapping) map[string]shipment.TargetField {
	fieldMap := make(map[string]shipment.TargetField, len(mappings))
	for _, m := range mappings {
		if m.TargetField == shipment.FieldIgnore {
			continue
		}
		fieldMap[headernorm.Normalize(m.SourceHeader)] = m.TargetField
	}
	return fieldMap
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Input file path")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet name for Excel inputs (default: first sheet)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./goship.db", "Path to local SQLite database")
	importCmd.Flags().StringVar(&importServiceType, "service-type", "", "Service type for duplicate scoping (default: detected from file signals)")
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "Persist parsed records (default: preview only)")
	importCmd.Flags().BoolVar(&importSaveTemplate, "save-template", false, "Save the confirmed mapping as a template for this header layout")
	importCmd.Flags().StringVar(&importTemplateName, "template-name", "", "Template name when saving (default: input file name)")

	_ = importCmd.MarkFlagRequired("input")
}
