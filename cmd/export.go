package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goship/config"
	"goship/output"
	"goship/storage"
)

var (
	exportFormat string
	exportOutput string
	exportDBPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted shipment records from SQLite to CSV/Excel",
	Long: `Export the canonical shipment records previously persisted with "import --commit".

Output format can be selected explicitly via --format or inferred from the --output extension.`,
	Example: `
  # Export to CSV
  goship export --db ./goship.db --output ./envios.csv

  # Export to Excel
  goship export --db ./goship.db --output ./envios.xlsx

  # Force format independent of extension
  goship export --format xlsx --output ./envios.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.ListRecords(cmd.Context(), cfg.Org.ID)
		if err != nil {
			return err
		}

		if err := writer.Write(exportOutput, records); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Format: %s, File: %s\n", len(records), format, exportOutput)
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm", "xls":
		return "xlsx"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|xlsx (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "./goship.db", "Path to local SQLite database")

	_ = exportCmd.MarkFlagRequired("output")
}
