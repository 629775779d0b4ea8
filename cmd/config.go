package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage goship configuration file values.",
	Long: `Create, edit, and display the goship configuration file.

The configuration stores organization identity and classifier settings:
- org.id / org.name
- ai.enabled / ai.api_key / ai.model / ai.timeout_seconds
- import.max_file_size_mb`,
	Example: `
  # Create default config in $HOME/.goship.yaml
  goship config create

  # Show active config and source file
  goship config show

  # Open active config in editor (creates example if missing)
  goship config edit
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
