package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/prep-agent/internal/transcript"
	"github.com/jonathan/prep-agent/internal/types"
)

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := 7.5
	session := &types.PrepSession{
		ID:             uuid.New(),
		Mode:           types.ModeTargeted,
		Status:         types.StatusActive,
		ReadinessScore: &score,
		Summary:        map[string]string{"focus": "system design"},
	}

	p.PrintSession(session)
	output := buf.String()

	assert.Contains(t, output, "PREP SESSION")
	assert.Contains(t, output, string(types.ModeTargeted))
	assert.Contains(t, output, string(types.StatusActive))
	assert.Contains(t, output, "7.5")
	assert.Contains(t, output, "system design")
}

func TestPrintSession_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSession(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTranscript(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	entries := []transcript.Entry{
		{Message: types.Message{Sender: types.SenderAssistant, Type: types.TypeQuestion, Content: "Explain mutexes"}},
		{Message: types.Message{Sender: types.SenderUser, Type: types.TypeAnswer, Content: "A mutex serializes access"}},
		{Message: types.Message{Sender: types.SenderUser, Type: types.TypeAnswer, Content: "still sending"}, Pending: true},
		{Message: types.Message{Sender: types.SenderUser, Type: types.TypeQuestion, Content: "lost prompt"}, Failed: true},
	}

	p.PrintTranscript(entries)
	output := buf.String()

	assert.Contains(t, output, "TRANSCRIPT")
	assert.Contains(t, output, "question:")
	assert.Contains(t, output, "answer:")
	assert.Contains(t, output, "Explain mutexes")
	assert.Contains(t, output, "[sending]")
	assert.Contains(t, output, "[failed]")
}

func TestPrintTranscript_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTranscript(nil)

	assert.Empty(t, buf.String())
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := 6.5
	p.PrintEvaluation("Solid answer, mention lock contention.", &score, []string{"clarity", "depth"})
	output := buf.String()

	assert.Contains(t, output, "ANSWER FEEDBACK")
	assert.Contains(t, output, "6.5")
	assert.Contains(t, output, "clarity, depth")
	assert.Contains(t, output, "Solid answer")
}

func TestPrintEvaluation_NoScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation("Feedback only.", nil, nil)
	output := buf.String()

	assert.Contains(t, output, "Feedback only.")
	assert.NotContains(t, output, "Score:")
}

func TestPrintEntities(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.ExtractResult{
		Entities: map[string][]string{
			"SKILL":   {"Go", "Kubernetes"},
			"COMPANY": {"TechCorp"},
		},
	}

	p.PrintEntities(result)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED ENTITIES")
	assert.Contains(t, output, "TechCorp")
	assert.Contains(t, output, "- Go")
}

func TestPrintEntities_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEntities(&types.ExtractResult{})
	output := buf.String()

	assert.Contains(t, output, "NO ENTITIES RECOGNIZED")
}

func TestPrintSessionList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	sessions := []types.PrepSession{
		{ID: uuid.New(), Mode: types.ModeQuickPractice, Status: types.StatusActive},
		{ID: uuid.New(), Mode: types.ModeTargeted, Status: types.StatusCompleted},
	}
	meta := &types.PageMeta{Page: 1, PageSize: 20, TotalPages: 3, TotalItems: 42}

	p.PrintSessionList(sessions, meta)
	output := buf.String()

	assert.Contains(t, output, "PREP SESSIONS")
	assert.Contains(t, output, sessions[0].ID.String()[:8])
	assert.Contains(t, output, "Page 1 of 3 (42 total)")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	session := &types.PrepSession{
		ID:      uuid.New(),
		Mode:    types.ModeQuickPractice,
		Status:  types.StatusActive,
		Summary: map[string]string{"notes": "A very long summary line that should be truncated to fit inside the box"},
	}

	p.PrintSession(session)
	output := buf.String()

	// Should contain box characters
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}
