package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"goship/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goship",
	Short: "Import, map, and reconcile shipment spreadsheets into a local SQLite database.",
	Long: `
**********************************************
*                 GOSHIP                     *
**********************************************

This CLI parses courier spreadsheet exports (Excel, CSV), matches them
against saved header templates, suggests a column mapping (AI-assisted
when configured, heuristic otherwise), infers pickup locations from
free-text addresses, and flags probable duplicate shipments before
anything is persisted.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
`,
	Example: `
  # Create configuration file
  goship config create

  # Preview an import without writing anything
  goship import -i envios-marzo.xlsx

  # Import and persist the parsed records
  goship import -i envios-marzo.xlsx --commit

  # Save the confirmed mapping as a reusable template
  goship import -i envios-marzo.xlsx --commit --save-template --template-name "Mensajería marzo"

  # List saved templates
  goship templates

  # Export persisted records
  goship export --output ./envios.csv

  # Seed departments and localities for location inference
  goship seed --departments ./departments.csv --localities ./localities.csv

  # Start the local JSON API
  goship serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.goship.yaml, then ./.goship.yaml)")

	rootCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "import", "serve":
		return true
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env may carry GEMINI_API_KEY during development.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".goship" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".goship")
	}

	viper.AutomaticEnv() // read in environment variables that match
	_ = viper.BindEnv(config.KeyAIAPIKey, "GEMINI_API_KEY")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: goship config create")
	}
}
