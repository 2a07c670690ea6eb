package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/MediLog-SchedulingService/internal/config"
	"github.com/m04kA/MediLog-SchedulingService/migrations"
	"github.com/m04kA/MediLog-SchedulingService/pkg/migrator"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			applied, err := migrator.New(db, migrations.Files).Up(context.Background())
			for _, name := range applied {
				fmt.Printf("applied %s\n", name)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}
