package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/observability"
	"github.com/jonathan/prep-agent/internal/session"
	"github.com/jonathan/prep-agent/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Practice interview questions interactively",
	Long: `Open a prep session and chat with the interviewer. Answers to pending
questions are scored; anything else starts a new question cycle.

Commands inside the chat: /retry re-requests feedback after a partial
failure, /transcript reprints the conversation, /quit exits.`,
	RunE: runChat,
}

var (
	chatSessionID string
	chatLegacy    bool
)

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Session UUID to resume (a QUICK_PRACTICE session is created when omitted)")
	chatCmd.Flags().BoolVar(&chatLegacy, "legacy", false, "Use the older append + next-question call pair for fresh input")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
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

	sessionID, err := resolveChatSession(ctx, client, userID)
	if err != nil {
		return err
	}

	legacy := chatLegacy || cfg.Legacy
	orch := session.New(client, session.Options{Legacy: legacy, Logger: log})
	store, err := orch.Open(ctx, sessionID)
	if err != nil {
		return err
	}
	defer orch.Close(sessionID)

	printer := observability.NewPrinter(os.Stdout)
	current := store.Session()
	printer.PrintSession(&current)
	if store.Len() > 0 {
		printer.PrintTranscript(store.Entries())
	}

	return chatLoop(ctx, orch, sessionID, os.Stdin, os.Stdout)
}

// resolveChatSession parses --session or creates a quick practice session.
func resolveChatSession(ctx context.Context, client sessionCreator, userID *uuid.UUID) (uuid.UUID, error) {
	if chatSessionID != "" {
		id, err := uuid.Parse(chatSessionID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid --session: %w", err)
		}
		return id, nil
	}

	created, err := client.CreateSession(ctx, types.PrepSessionCreate{
		Mode:   types.ModeQuickPractice,
		UserID: userID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	fmt.Println("Started quick practice session", created.ID)
	return created.ID, nil
}

type sessionCreator interface {
	CreateSession(ctx context.Context, spec types.PrepSessionCreate) (*types.PrepSession, error)
}

// chatLoop reads lines from in and drives the orchestrator until /quit
// or EOF. It is split from runChat so tests can feed scripted input.
func chatLoop(ctx context.Context, orch *session.Orchestrator, sessionID uuid.UUID, in io.Reader, out io.Writer) error {
	printer := observability.NewPrinter(out)
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Type your message (/quit to exit):")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/transcript":
			printer.PrintTranscript(orch.Store(sessionID).Entries())
			continue
		case "/retry":
			result, err := orch.RetryFeedback(ctx, sessionID)
			if err != nil {
				fmt.Fprintf(out, "Retry failed: %v\n", err)
				continue
			}
			printChatResult(out, printer, result)
			continue
		}

		result, err := orch.Send(ctx, sessionID, line)
		if err != nil {
			var partial *session.PartialEvalError
			switch {
			case errors.As(err, &partial):
				fmt.Fprintln(out, "Your answer was recorded, but scoring failed. Type /retry to request feedback again.")
			case errors.Is(err, session.ErrSendInFlight):
				fmt.Fprintln(out, "Still sending the previous message, hold on.")
			default:
				fmt.Fprintf(out, "Send failed: %v\n", err)
			}
			continue
		}
		printChatResult(out, printer, result)
	}
}

func printChatResult(out io.Writer, printer *observability.Printer, result *session.SendResult) {
	for _, msg := range result.Messages {
		role := types.RoleFor(msg.Sender, msg.Type)
		if role == types.RoleFeedback {
			printer.PrintEvaluation(msg.Content, result.Score, result.Dimensions)
			continue
		}
		if msg.Sender == types.SenderAssistant {
			fmt.Fprintf(out, "\n%s: %s\n", role, msg.Content)
		}
	}
	if result.Session != nil && result.Session.ReadinessScore != nil {
		fmt.Fprintf(out, "Readiness score: %.1f\n", *result.Session.ReadinessScore)
	}
}
