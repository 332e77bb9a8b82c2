package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/observability"
	"github.com/your-org/faceauth/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "faceauthctl",
	Short: "Operator tooling for the faceauth service",
	Long: `faceauthctl inspects and maintains a faceauth deployment: directory
rows, face index entries, collection bootstrap and reconciliation of
divergence between the index and the directory.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to config file")
}

func initEnv() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// connect loads config and opens the store and index. No vision models are
// loaded: operator commands never embed photos.
func connect() (*config.Config, *storage.PostgresStore, *faceindex.PgvectorIndex, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	observability.SetupLogger(cfg.Logging.Level, "text")

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	index := faceindex.NewPgvectorIndex(db.Pool(), nil, nil,
		cfg.FaceIndex.Collection, cfg.FaceIndex.DedupThreshold)

	return cfg, db, index, nil
}
