package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"loandash/internal/backup"
	"loandash/internal/logger"
)

var (
	outputDir    string
	backupFormat string
	backupDriver string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup loans to a file",
	Long:  "Write every loan in the store to a timestamped JSON-lines or CSV file",
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&outputDir, "output", "o", "./backups", "Output directory for backup files")
	backupCmd.Flags().StringVarP(&backupFormat, "format", "f", backup.FormatJSON, "Backup format: json or csv")
	storeFlags(backupCmd, &backupDriver)
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if backupFormat != backup.FormatJSON && backupFormat != backup.FormatCSV {
		return fmt.Errorf("invalid format: %s. Use 'json' or 'csv'", backupFormat)
	}

	sc := storeConfig(backupDriver)
	store, err := openStore(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	backupService := backup.NewService(store)

	logger.Log.Infof("Starting backup of the %s store to %s format...", sc.Driver, backupFormat)
	backupFile, count, err := backupService.BackupCollection(ctx, outputDir, backupFormat)
	if err != nil {
		return err
	}
	logger.Log.Infof("Backup completed successfully: %s (%d loans)", backupFile, count)
	return nil
}
