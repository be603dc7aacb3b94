package cmd

import (
	"context"
	"fmt"
	"log"

	entryDatamodel "github.com/frahmantamala/income-expense-tracker/internal/core/datamodel/entry"
	entryPostgres "github.com/frahmantamala/income-expense-tracker/internal/entry/postgres"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a sample November 2024 entry for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			res := gdb.Exec("DELETE FROM data_entries")
			if res.Error != nil {
				log.Fatalf("failed to clear entries: %v", res.Error)
			}
			fmt.Printf("Cleared %d entries\n", res.RowsAffected)
		}

		samples := []entryDatamodel.DataEntry{
			{
				Month:    "November",
				Year:     2024,
				Income:   entryDatamodel.Amounts{"Salary": 50000, "Other income": 0},
				Expenses: entryDatamodel.Amounts{"MMF": 5000, "Groceries": 10000, "Utilities": 2000, "Other Expenses": 0},
				Comment:  "sample entry",
			},
		}

		ctx := context.Background()
		repo := entryPostgres.NewEntryRepository(gdb)
		for i := range samples {
			sample := &samples[i]
			existing, err := repo.FindFirstByPeriod(ctx, sample.Month, sample.Year)
			if err != nil {
				log.Fatalf("failed to check %s %d: %v", sample.Month, sample.Year, err)
			}
			if existing != nil {
				fmt.Printf("Entry for %d_%s already exists; skipping\n", sample.Year, sample.Month)
				continue
			}
			if err := repo.Create(ctx, sample); err != nil {
				log.Fatalf("failed to insert entry %d_%s: %v", sample.Year, sample.Month, err)
			}
			fmt.Printf("Seeded entry: %d_%s\n", sample.Year, sample.Month)
		}

		fmt.Println("Entries seeded successfully")
	},
}
