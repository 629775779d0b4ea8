package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"goship/config"
	"goship/storage"
	"goship/web"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API for upload preview and mapping suggestions",
	Long: `Start a local HTTP server exposing the import pipeline:

  POST /api/preview    multipart upload, returns the full pipeline preview
  POST /api/mapping    suggest a mapping for raw headers
  GET  /api/templates  list saved templates

The API never persists records; it is a preview surface for a frontend.`,
	Example: `
  # Start on the default port
  goship serve

  # Custom port and database
  goship serve --port 9090 --db ./goship.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(serveDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		service, engine, err := buildService(ctx, store, *cfg)
		if err != nil {
			return err
		}

		server := web.NewServer(service, engine, store, cfg.Org.ID)

		addr := fmt.Sprintf(":%d", servePort)
		fmt.Printf("Listening on http://localhost:%d\n", servePort)
		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local API server")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "./goship.db", "Path to local SQLite database")
}
