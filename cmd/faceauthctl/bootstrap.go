package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/service"
)

var recreate bool

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Ensure the active collection exists",
	Long: `Ensures the configured collection exists in the face index.

By default the collection is only created when absent. With --recreate an
existing collection is deleted first, destroying every enrolled template —
only for development resets, never against a deployment holding live
enrollments.`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().BoolVar(&recreate, "recreate", false, "delete and recreate an existing collection (DESTRUCTIVE)")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, db, index, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	policy := config.ResetPolicyCreateIfAbsent
	if recreate {
		policy = config.ResetPolicyRecreate
		fmt.Println("WARNING: --recreate deletes every enrolled template in the collection")
	}

	b := service.NewBootstrapper(index)
	if err := b.EnsureCollection(context.Background(), cfg.FaceIndex.Collection, policy); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	fmt.Printf("collection %s ready\n", cfg.FaceIndex.Collection)
	return nil
}
