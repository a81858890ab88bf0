package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/mkowalik/carscout/config"
	"github.com/mkowalik/carscout/internal/ingest"
	"github.com/mkowalik/carscout/internal/store"
)

func seedCMD() *cobra.Command {
	var cfgPath string
	var csvPath string
	var limit int

	var seed = &cobra.Command{
		Use:   "seed",
		Short: "Replace all listings from the CSV dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			if csvPath == "" {
				csvPath = cfg.Ingest.CSVPath
			}
			if limit == 0 {
				limit = cfg.Ingest.Limit
			}

			ctx := context.Background()
			st, err := store.NewWithDSN(ctx, cfg.Storage.Postgres.DSN())
			if err != nil {
				return err
			}
			n, err := ingest.NewSeeder(st).Run(ctx, csvPath, limit)
			if err != nil {
				return err
			}
			log.Printf("seeded %d listings", n)
			return nil
		},
	}
	seed.Flags().StringVar(&csvPath, "csv", "", "CSV file (default from config)")
	seed.Flags().IntVar(&limit, "limit", 0, "max rows to import (0 = all)")
	seed.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return seed
}
