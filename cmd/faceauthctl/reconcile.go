package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Report divergence between the face index and the user directory",
	Long: `Reports the two partial states enrollment can leave behind:

  orphaned rows      directory rows that never received a biometric link
  unlinked templates index templates no directory row points at

Nothing is deleted; fixing divergence stays an explicit operator decision.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	_, db, index, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	orphans, err := db.ListOrphans(ctx)
	if err != nil {
		return fmt.Errorf("list orphans: %w", err)
	}

	entries, err := index.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	linked := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		if u.FaceID != nil {
			linked[*u.FaceID] = true
		}
	}

	fmt.Printf("orphaned rows: %d\n", len(orphans))
	for _, u := range orphans {
		fmt.Printf("  user %d (%s), created %s\n", u.ID, u.Name, u.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var unlinked []uuid.UUID
	for _, id := range entries {
		if !linked[id] {
			unlinked = append(unlinked, id)
		}
	}
	fmt.Printf("unlinked templates: %d\n", len(unlinked))
	for _, id := range unlinked {
		fmt.Printf("  template %s\n", id)
	}

	return nil
}
