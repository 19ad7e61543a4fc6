package cmd

import (
	"fmt"
	"log"

	"userapi/internal/config"
	"userapi/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if cfg.Database.Driver == config.DriverMemory {
			return fmt.Errorf("nothing to migrate for driver %s", cfg.Database.Driver)
		}

		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		defer sqlDB.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Printf("Migrated %s database", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
