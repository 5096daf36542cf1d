package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deleteSessionCmd = &cobra.Command{
	Use:   "delete-session <session-id>",
	Short: "Delete a prep session and its transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteSession,
}

func init() {
	rootCmd.AddCommand(deleteSessionCmd)
}

func runDeleteSession(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	if err := client.DeleteSession(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Deleted session %s\n", id)
	return nil
}
