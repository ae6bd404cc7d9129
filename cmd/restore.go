package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loandash/internal/backup"
	"loandash/internal/database"
	"loandash/internal/logger"
)

var (
	inputFile        string
	restoreFormat    string
	restoreDriver    string
	dropExisting     bool
	skipConfirmation bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore loans from a backup file",
	Long:  "Restore loans from a JSON-lines or CSV backup into a SQLite or MongoDB store",
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input backup file to restore (required)")
	restoreCmd.Flags().StringVarP(&restoreFormat, "format", "f", "", "Backup format: json or csv (auto-detected if not specified)")
	restoreCmd.Flags().BoolVar(&dropExisting, "drop", false, "Remove existing loans before restore")
	restoreCmd.Flags().BoolVar(&skipConfirmation, "yes", false, "Skip confirmation prompts")
	storeFlags(restoreCmd, &restoreDriver)

	restoreCmd.MarkFlagRequired("input")
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", inputFile)
	}

	format := restoreFormat
	if format == "" {
		detected, err := backup.DetectFormat(inputFile)
		if err != nil {
			return fmt.Errorf("%w. Please specify --format", err)
		}
		format = detected
	}

	if err := backup.ValidateBackupFile(inputFile, format); err != nil {
		return fmt.Errorf("backup file validation failed: %w", err)
	}

	sc := storeConfig(restoreDriver)
	if !skipConfirmation {
		logger.Log.Infof("About to restore:")
		logger.Log.Infof("  Source file: %s", inputFile)
		logger.Log.Infof("  Target store: %s", sc.Driver)
		logger.Log.Infof("  Format: %s", format)
		if dropExisting {
			logger.Log.Warnf("  WARNING: Existing loans will be REMOVED!")
		}

		if !confirmAction("Do you want to continue?") {
			logger.Log.Info("Restore cancelled")
			return nil
		}
	}

	db, err := database.OpenWriter(ctx, sc)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	logger.Log.Infof("Starting restore from %s...", inputFile)

	count, err := backup.RestoreCollection(ctx, db, inputFile, format, dropExisting)
	if err != nil {
		return err
	}

	logger.Log.Infof("Restore completed successfully! %d loans restored", count)
	return nil
}

func confirmAction(message string) bool {
	fmt.Printf("%s (y/N): ", message)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
