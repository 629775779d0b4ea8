package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goship/location"
	"goship/storage"
)

var (
	seedDepartmentsPath string
	seedLocalitiesPath  string
	seedDBPath          string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load department and locality reference data for location inference",
	Long: `Load the reference geography used to infer departments and localities from
free-text addresses.

Departments CSV columns: id,name
Localities CSV columns:  id,department_id,name

Both files must carry a header row. Re-running replaces existing rows with
the same id.`,
	Example: `
  goship seed --departments ./departments.csv --localities ./localities.csv --db ./goship.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		departments, err := loadDepartmentsCSV(seedDepartmentsPath)
		if err != nil {
			return err
		}
		localities, err := loadLocalitiesCSV(seedLocalitiesPath)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(seedDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SeedReferenceData(cmd.Context(), departments, localities); err != nil {
			return err
		}

		fmt.Printf("Seed completed. Departments: %d, Localities: %d\n", len(departments), len(localities))
		return nil
	},
}

func loadDepartmentsCSV(path string) ([]location.Department, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}

	departments := make([]location.Department, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("departments file %s row %d: expected id,name", path, i+2)
		}
		departments = append(departments, location.Department{
			ID:   row[0],
			Name: row[1],
		})
	}
	return departments, nil
}

func loadLocalitiesCSV(path string) ([]location.Locality, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}

	localities := make([]location.Locality, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("localities file %s row %d: expected id,department_id,name", path, i+2)
		}
		localities = append(localities, location.Locality{
			ID:           row[0],
			DepartmentID: row[1],
			Name:         row[2],
		})
	}
	return localities, nil
}

// readCSVRows reads all data rows from a CSV file, skipping the header row.
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read reference file %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("reference file %s has no data rows", path)
	}
	return all[1:], nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedDepartmentsPath, "departments", "", "CSV file with department reference rows (id,name)")
	seedCmd.Flags().StringVar(&seedLocalitiesPath, "localities", "", "CSV file with locality reference rows (id,department_id,name)")
	seedCmd.Flags().StringVar(&seedDBPath, "db", "./goship.db", "Path to local SQLite database")

	_ = seedCmd.MarkFlagRequired("departments")
	_ = seedCmd.MarkFlagRequired("localities")
}
