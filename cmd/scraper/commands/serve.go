package commands

import (
	"github.com/qepting91/reddit-harvester/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	serveData string
	servePort string
)

func init() {
	serveCmd.Flags().StringVarP(&serveData, "data", "d", "", "NDJSON collection written by --ndjson.")
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default PORT from the environment).")
	serveCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve --data <path/to/posts.ndjson> [--port <port>]",
	Short: "Serves a chart dashboard over a saved collection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == "" {
			port = cfg.Port
		}
		return dashboard.StartServer(cmd.Context(), serveData, port, logger.With("component", "dashboard"))
	},
}
