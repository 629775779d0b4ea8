package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"goship/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. The API key
is redacted.`,
	Example: `
  # Show active configuration
  goship config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("org.id: %s\n", cfg.Org.ID)
			fmt.Printf("org.name: %s\n", cfg.Org.Name)
			fmt.Printf("ai.enabled: %t\n", cfg.AI.Enabled)
			fmt.Printf("ai.api_key: %s\n", redactSecret(cfg.AI.APIKey))
			fmt.Printf("ai.model: %s\n", cfg.AI.Model)
			fmt.Printf("ai.timeout_seconds: %d\n", cfg.AI.TimeoutSeconds)
			fmt.Printf("import.max_file_size_mb: %d\n", cfg.Import.MaxFileSizeMB)
		}
	},
}

func redactSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "********"
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
