package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/config"
	"github.com/sangkips/cleanops-api/internal/infrastructure/database"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "cleanops-api",
	Short: "Back office API for residential and commercial cleaning businesses",
	Long: `cleanops-api serves the multi-tenant back office used by cleaning
businesses: clients and their properties, website leads, estimates, jobs,
invoices and payments.

Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return err
		}
		return database.AutoMigrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, service types and the platform admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return err
		}
		return database.SeedDefaultData(db, cfg.Admin)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".env", "path to the env file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the global logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg := config.Load(configFile)

	log, err := logger.New(logger.Config{
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Env,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.Source == "" {
		log.Info("no config file found, using environment", zap.String("path", configFile))
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, log, nil
}

// openDatabase connects, migrates and seeds before the server starts
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		zap.L().Warn("failed to seed default data", zap.Error(err))
	}
	return db, nil
}
