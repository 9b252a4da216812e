package main

import (
	"github.com/eazyque/eazyque-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return err
		}
		return database.AutoMigrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo shop and owner from ADMIN_* variables",
	Long: `Create a demo shop and its owner account.

Environment variables:
  ADMIN_EMAIL, ADMIN_PASSWORD  - owner credentials (required)
  ADMIN_NAME                   - owner display name
  ADMIN_SHOP_NAME              - shop name, also used for its slug
  ADMIN_SHOP_STATE             - GST state of the shop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		return database.SeedDefaultData(cmd.Context(), db)
	},
}
