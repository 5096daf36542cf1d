package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/observability"
	"github.com/jonathan/prep-agent/internal/transcript"
	"github.com/jonathan/prep-agent/internal/turns"
)

var showSessionCmd = &cobra.Command{
	Use:   "show-session <session-id>",
	Short: "Show a session with its full transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowSession,
}

func init() {
	rootCmd.AddCommand(showSessionCmd)
}

func runShowSession(cmd *cobra.Command, args []string) error {
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

	session, err := client.GetSessionWithMessages(ctx, id)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSession(&session.PrepSession)

	if len(session.Messages) == 0 {
		fmt.Fprintln(os.Stdout, "No messages yet.")
		return nil
	}

	entries := make([]transcript.Entry, len(session.Messages))
	for i, msg := range session.Messages {
		entries[i] = transcript.Entry{Message: msg}
	}
	printer.PrintTranscript(entries)

	state := "ready for a new question"
	if turns.Classify(session.Messages) == turns.AwaitingAnswer {
		state = "a question is awaiting your answer"
	}
	fmt.Fprintf(os.Stdout, "State: %s\n", state)
	return nil
}
