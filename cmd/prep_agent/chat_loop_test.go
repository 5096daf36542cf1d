package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/prep-agent/internal/api"
	"github.com/jonathan/prep-agent/internal/session"
	"github.com/jonathan/prep-agent/internal/types"
)

// stubGateway drives chatLoop without a server. Unset function fields
// fail the call so a test notices an unexpected code path.
type stubGateway struct {
	session  types.PrepSessionWithMessages
	chatTurn func(text string) (*types.ChatTurnPayload, error)
	evaluate func(text string) (*api.EvaluationResult, error)
	score    func() (*api.EvaluationResult, error)
}

func (g *stubGateway) GetSessionWithMessages(_ context.Context, _ uuid.UUID) (*types.PrepSessionWithMessages, error) {
	copied := g.session
	return &copied, nil
}

func (g *stubGateway) AppendMessage(_ context.Context, _ uuid.UUID, _ types.MessageCreate) (*types.Message, error) {
	return nil, fmt.Errorf("unexpected AppendMessage call")
}

func (g *stubGateway) EvaluateAnswer(_ context.Context, _ uuid.UUID, text string) (*api.EvaluationResult, error) {
	if g.evaluate == nil {
		return nil, fmt.Errorf("unexpected EvaluateAnswer call")
	}
	return g.evaluate(text)
}

func (g *stubGateway) ScoreAnswer(_ context.Context, _, _ uuid.UUID) (*api.EvaluationResult, error) {
	if g.score == nil {
		return nil, fmt.Errorf("unexpected ScoreAnswer call")
	}
	return g.score()
}

func (g *stubGateway) RequestNextQuestion(_ context.Context, _ uuid.UUID) (*types.Message, error) {
	return nil, fmt.Errorf("unexpected RequestNextQuestion call")
}

func (g *stubGateway) PostChatTurn(_ context.Context, _ uuid.UUID, text string) (*types.ChatTurnPayload, error) {
	if g.chatTurn == nil {
		return nil, fmt.Errorf("unexpected PostChatTurn call")
	}
	return g.chatTurn(text)
}

var chatTestBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func chatMsg(sessionID uuid.UUID, sender types.Sender, typ types.MessageType, content string, seq int) types.Message {
	return types.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Sender:    sender,
		Type:      typ,
		Content:   content,
		CreatedAt: chatTestBase.Add(time.Duration(seq) * time.Second),
	}
}

func newChatSession(messages ...types.Message) types.PrepSessionWithMessages {
	return types.PrepSessionWithMessages{
		PrepSession: types.PrepSession{
			ID:     uuid.New(),
			Mode:   types.ModeQuickPractice,
			Status: types.StatusActive,
		},
		Messages: messages,
	}
}

func runChatScript(t *testing.T, gw *stubGateway, script string) string {
	t.Helper()

	orch := session.New(gw, session.Options{})
	_, err := orch.Open(context.Background(), gw.session.ID)
	require.NoError(t, err)

	var out bytes.Buffer
	err = chatLoop(context.Background(), orch, gw.session.ID, strings.NewReader(script), &out)
	require.NoError(t, err)
	return out.String()
}

func TestChatLoop_QuestionThenAnswer(t *testing.T) {
	gw := &stubGateway{session: newChatSession()}
	sessionID := gw.session.ID

	gw.chatTurn = func(text string) (*types.ChatTurnPayload, error) {
		return &types.ChatTurnPayload{
			NewMessages: []types.Message{
				chatMsg(sessionID, types.SenderUser, types.TypeQuestion, text, 1),
				chatMsg(sessionID, types.SenderAssistant, types.TypeQuestion, "Tell me about a project you led.", 2),
			},
		}, nil
	}
	score := 8.5
	gw.evaluate = func(text string) (*api.EvaluationResult, error) {
		return &api.EvaluationResult{
			Answer:     chatMsg(sessionID, types.SenderUser, types.TypeAnswer, text, 3),
			Feedback:   chatMsg(sessionID, types.SenderAssistant, types.TypeFeedback, "Strong ownership story.", 4),
			Score:      &score,
			Dimensions: []string{"clarity", "impact"},
		}, nil
	}

	out := runChatScript(t, gw, "ask me something\nI led the migration project\n/quit\n")

	assert.Contains(t, out, "Tell me about a project you led.")
	assert.Contains(t, out, "Strong ownership story.")
	assert.Contains(t, out, "Score: 8.5 / 10")
	assert.Contains(t, out, "clarity")
}

func TestChatLoop_PartialEvaluationOffersRetry(t *testing.T) {
	sessionID := uuid.New()
	pending := chatMsg(sessionID, types.SenderAssistant, types.TypeQuestion, "Why this role?", 1)
	gw := &stubGateway{session: newChatSession(pending)}
	gw.session.ID = sessionID

	answer := chatMsg(sessionID, types.SenderUser, types.TypeAnswer, "because", 2)
	gw.evaluate = func(_ string) (*api.EvaluationResult, error) {
		return &api.EvaluationResult{Answer: answer},
			&api.RemoteError{Status: 502, Message: "scoring backend unavailable"}
	}
	gw.score = func() (*api.EvaluationResult, error) {
		return &api.EvaluationResult{
			Answer:   answer,
			Feedback: chatMsg(sessionID, types.SenderAssistant, types.TypeFeedback, "Good motivation.", 3),
		}, nil
	}

	out := runChatScript(t, gw, "because\n/retry\n/quit\n")

	assert.Contains(t, out, "Type /retry")
	assert.Contains(t, out, "Good motivation.")
}

func TestChatLoop_SendFailureIsReported(t *testing.T) {
	gw := &stubGateway{session: newChatSession()}
	gw.chatTurn = func(_ string) (*types.ChatTurnPayload, error) {
		return nil, &api.RemoteError{Status: 500, Message: "boom"}
	}

	out := runChatScript(t, gw, "hello\n/quit\n")

	assert.Contains(t, out, "Send failed")
	assert.Contains(t, out, "boom")
}

func TestChatLoop_BlankLinesAndQuit(t *testing.T) {
	gw := &stubGateway{session: newChatSession()}

	// No gateway functions are set: any send would fail the test.
	out := runChatScript(t, gw, "\n   \n/quit\n")

	assert.Contains(t, out, "Type your message")
}

func TestChatLoop_TranscriptReplay(t *testing.T) {
	sessionID := uuid.New()
	question := chatMsg(sessionID, types.SenderAssistant, types.TypeQuestion, "Describe a failure.", 1)
	gw := &stubGateway{session: newChatSession(question)}
	gw.session.ID = sessionID

	out := runChatScript(t, gw, "/transcript\n/quit\n")

	assert.Contains(t, out, "Describe a failure.")
}
