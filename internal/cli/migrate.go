package cli

import (
	"github.com/kvizarena/api/config"
	"github.com/kvizarena/api/database"
	"github.com/kvizarena/api/internal/app"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies the database schema without starting the server.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			return app.AutoMigrateDB(db)
		},
	}
}
