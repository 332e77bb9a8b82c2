package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List directory rows",
	Long:  `Lists every user row in insertion order, including orphaned rows that never received a biometric link.`,
	RunE:  runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) error {
	_, db, _, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := db.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		faceID := "-"
		if u.FaceID != nil {
			faceID = u.FaceID.String()
		}
		fmt.Printf("%d\t%s\t%d\t%s\n", u.ID, u.Name, u.Age, faceID)
	}
	fmt.Printf("total: %d\n", len(users))
	return nil
}
