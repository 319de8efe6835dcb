package cli

import (
	"context"

	"github.com/kvizarena/api/internal/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewServeCmd starts the HTTP API server.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.New()
			if err := application.Start(context.Background()); err != nil {
				return err
			}
			<-application.Done()
			log.Info().Msg("Application shutting down gracefully...")
			return application.Stop(context.Background())
		},
	}
}
