package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"loandash/internal/database"
	"loandash/internal/generator"
	"loandash/internal/logger"
)

var (
	seedCount  int
	seedValue  int64
	seedDriver string
	seedDrop   bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a store with generated loans",
	Long:  "Generate synthetic loan applications and insert them into a SQLite or MongoDB store",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 0, "Number of loans to generate (default from config)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (default from config)")
	seedCmd.Flags().BoolVar(&seedDrop, "drop", false, "Remove existing loans first")
	storeFlags(seedCmd, &seedDriver)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sc := storeConfig(seedDriver)
	if cmd.Flags().Changed("count") {
		sc.Count = seedCount
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seedValue
	}

	db, err := database.OpenWriter(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if seedDrop {
		if err := db.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop existing loans: %w", err)
		}
	}

	loans := generator.GenerateSeeded(sc.Count, sc.Seed, time.Now())
	n, err := db.InsertLoans(ctx, loans)
	if err != nil {
		return fmt.Errorf("failed to insert loans: %w", err)
	}

	logger.Log.Infof("Seeded %d loans into the %s store", n, sc.Driver)
	return nil
}
