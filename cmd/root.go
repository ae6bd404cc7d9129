package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"loandash/internal/config"
	"loandash/internal/database"
	"loandash/internal/generator"
	"loandash/internal/logger"
	"loandash/internal/models"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "loandash",
	Short: "A terminal dashboard for browsing loan applications",
	Long: `loandash browses a large collection of loan applications page by page.
Filters are debounced, every page is fetched from the loans endpoint and
only the rows in view are rendered.

Running without a command starts the dashboard.`,
	RunE:         runTUI,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	// Assigned here rather than in the literal: loadConfig refers to rootCmd.
	rootCmd.PersistentPreRunE = loadConfig
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	addTUIFlags(rootCmd)

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(queryCmd)
}

// initConfig loads a .env file so LOANDASH_* variables can live next to the
// binary.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	// Everything but the dashboard owns the terminal, so logs go there too.
	if cmd != rootCmd && cmd != tuiCmd {
		c.Log.Stderr = true
	}
	if err := logger.Init(c.Log); err != nil {
		return err
	}
	cfg = c
	return nil
}

// openStore opens the configured store. The memory store is generated from
// the configured count and seed.
func openStore(ctx context.Context, sc config.StoreConfig) (database.Store, error) {
	return database.Open(ctx, sc, func() []models.Loan {
		logger.Log.Infof("Generating %d loans (seed %d)...", sc.Count, sc.Seed)
		return generator.GenerateSeeded(sc.Count, sc.Seed, time.Now())
	})
}

// storeFlags registers the flags that pick a store, defaulting to the config.
func storeFlags(cmd *cobra.Command, driver *string) {
	cmd.Flags().StringVarP(driver, "store", "s", "", "Store driver: memory, sqlite or mongo (default from config)")
}

func storeConfig(driver string) config.StoreConfig {
	sc := cfg.Store
	if driver != "" {
		sc.Driver = driver
	}
	return sc
}
