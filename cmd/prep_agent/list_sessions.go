package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/observability"
)

var listSessionsCmd = &cobra.Command{
	Use:   "list-sessions",
	Short: "List prep sessions",
	RunE:  runListSessions,
}

var (
	listSessionsPage     int
	listSessionsPageSize int
)

func init() {
	listSessionsCmd.Flags().IntVarP(&listSessionsPage, "page", "p", 1, "Page number")
	listSessionsCmd.Flags().IntVar(&listSessionsPageSize, "page-size", 0, "Sessions per page (defaults to config page_size)")

	rootCmd.AddCommand(listSessionsCmd)
}

func runListSessions(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	userID, err := userIDFromConfig(cfg)
	if err != nil {
		return err
	}

	pageSize := listSessionsPageSize
	if pageSize <= 0 {
		pageSize = cfg.PageSize
	}

	list, err := client.ListSessions(ctx, listSessionsPage, pageSize, userID)
	if err != nil {
		return err
	}

	if len(list.Sessions) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions yet. Create one with: prep_agent new-session")
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSessionList(list.Sessions, list.Meta)
	return nil
}
