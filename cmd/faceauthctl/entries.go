package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List template ids in the active collection",
	RunE:  runEntries,
}

func init() {
	rootCmd.AddCommand(entriesCmd)
}

func runEntries(cmd *cobra.Command, args []string) error {
	_, db, index, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	ids, err := index.ListEntries(context.Background())
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("total: %d (collection %s)\n", len(ids), index.Collection())
	return nil
}
