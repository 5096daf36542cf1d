// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/prep-agent/internal/ingestion"
	"github.com/jonathan/prep-agent/internal/transcript"
	"github.com/jonathan/prep-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSession outputs a human-readable summary of a prep session.
func (p *Printer) PrintSession(session *types.PrepSession) {
	if session == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ID:       %s\n", session.ID))
	sb.WriteString(fmt.Sprintf("Mode:     %s\n", session.Mode))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", session.Status))
	if session.ReadinessScore != nil {
		sb.WriteString(fmt.Sprintf("Readiness: %.1f\n", *session.ReadinessScore))
	}

	if len(session.Summary) > 0 {
		sb.WriteString("\nSummary:\n")
		shown := 0
		for key, value := range session.Summary {
			if shown == maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(session.Summary)-maxItemsToShow))
				break
			}
			if len(value) > 40 {
				value = value[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", key, value))
			shown++
		}
	}

	p.printBox("PREP SESSION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTranscript outputs transcript entries with their presentation role
// and reconciliation state. Pending entries show as sending, failed ones
// stay visible with a failure marker.
func (p *Printer) PrintTranscript(entries []transcript.Entry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d messages:\n\n", len(entries)))

	for i, entry := range entries {
		role := types.RoleFor(entry.Sender, entry.Type)
		text := entry.Content
		if len(text) > 42 {
			text = text[:39] + "..."
		}

		marker := ""
		if entry.Pending {
			marker = " [sending]"
		}
		if entry.Failed {
			marker = " [failed]"
		}

		sb.WriteString(fmt.Sprintf("%-9s %s%s\n", role+":", text, marker))
		if i < len(entries)-1 && role == types.RoleFeedback {
			sb.WriteString("\n")
		}
	}

	p.printBox("TRANSCRIPT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs the feedback for an evaluated answer.
func (p *Printer) PrintEvaluation(feedback string, score *float64, dimensions []string) {
	var sb strings.Builder

	if score != nil {
		sb.WriteString(fmt.Sprintf("Score: %.1f / 10\n", *score))
	}
	if len(dimensions) > 0 {
		dims := strings.Join(dimensions, ", ")
		if len(dims) > 40 {
			dims = dims[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Dimensions: %s\n", dims))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(feedback)

	p.printBox("ANSWER FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEntities outputs the entities recognized by the extraction backend.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEntities(result *types.ExtractResult) {
	if result == nil || len(result.Entities) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO ENTITIES RECOGNIZED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	p.printBox("EXTRACTED ENTITIES", strings.TrimSuffix(ingestion.FormatEntities(result), "\n"))
}

// PrintSessionList outputs a page of sessions with pagination context.
func (p *Printer) PrintSessionList(sessions []types.PrepSession, meta *types.PageMeta) {
	if len(sessions) == 0 {
		return
	}

	var sb strings.Builder
	for i, session := range sessions {
		sb.WriteString(fmt.Sprintf("%s\n", session.ID))
		sb.WriteString(fmt.Sprintf("  %s, %s", session.Mode, session.Status))
		if session.ReadinessScore != nil {
			sb.WriteString(fmt.Sprintf(", readiness %.1f", *session.ReadinessScore))
		}
		sb.WriteString("\n")
		if i < len(sessions)-1 {
			sb.WriteString("\n")
		}
	}
	if meta != nil {
		sb.WriteString(fmt.Sprintf("\nPage %d of %d (%d total)", meta.Page, meta.TotalPages, meta.TotalItems))
	}

	p.printBox("PREP SESSIONS", sb.String())
}
