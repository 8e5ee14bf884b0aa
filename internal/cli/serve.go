package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the marketplace server",
		Long:  "Start the HTTP server with the JSON API and uploaded-file hosting.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}

func runServe(port int) error {
	cfg := auth.ConfigFromEnv()
	if cfg.JWTSecret == "" {
		return fmt.Errorf("LITORAL_JWT_SECRET must be set")
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	srv, err := web.NewServer(database, cfg)
	if err != nil {
		return err
	}

	return srv.ListenAndServe(port)
}
