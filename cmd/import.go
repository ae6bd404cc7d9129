package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loandash/internal/csv"
	"loandash/internal/database"
	"loandash/internal/logger"
	"loandash/internal/models"
)

var (
	csvFile      string
	importDriver string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import loans from a CSV file",
	Long: `Import loan applications from a CSV file into a SQLite or MongoDB store.
Existing loans with the same id are replaced.

Expected headers: id, applicant name, applicant email, amount, status,
application date, purpose, credit score, loan term`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	storeFlags(importCmd, &importDriver)

	importCmd.MarkFlagRequired("csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parser := csv.NewParser(csvFile)
	loans, err := parser.ParseLoans()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	logger.Log.Infof("Parsed %d loans from %s", len(loans), csvFile)

	valid := make([]models.Loan, 0, len(loans))
	skippedCount := 0
	for i, l := range loans {
		if err := csv.Validate(l); err != nil {
			logger.Log.Warnf("Skipping row %d: %v", i+2, err)
			skippedCount++
			continue
		}
		valid = append(valid, l)
	}

	sc := storeConfig(importDriver)
	db, err := database.OpenWriter(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	n, err := db.InsertLoans(ctx, valid)
	if err != nil {
		return fmt.Errorf("failed to import loans: %w", err)
	}

	if skippedCount > 0 {
		logger.Log.Warnf("WARNING: Skipped %d invalid rows", skippedCount)
	}
	logger.Log.Infof("Successfully imported %d/%d loans into the %s store", n, len(loans), sc.Driver)
	return nil
}
