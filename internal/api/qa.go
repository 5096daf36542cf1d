package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/prep-agent/internal/types"
)

// EvaluationResult is the outcome of the evaluate-answer sequence.
type EvaluationResult struct {
	// Answer is the persisted USER/ANSWER message. It is set as soon as
	// the append call succeeds, even when the scoring call then fails.
	Answer types.Message
	// Feedback is the ASSISTANT/FEEDBACK message created by the server.
	Feedback types.Message
	// Score and Dimensions mirror the evaluation payload when present.
	Score      *float64
	Dimensions []string
	// Session carries server-recomputed readiness/summary when returned.
	Session *types.PrepSession
}

type evaluateRequest struct {
	MessageID uuid.UUID `json:"message_id"`
}

type chatTurnRequest struct {
	Content string `json:"content"`
}

// EvaluateAnswer appends answerText as a USER/ANSWER message, then
// requests scoring for it. These are two sequential calls: when the
// append succeeds but scoring fails, the transcript already holds the
// answer and no rollback is attempted. In that case the returned result
// is non-nil with Answer set, alongside the scoring error, so the
// caller can surface a partial-application warning and retry scoring
// via ScoreAnswer without re-submitting the answer.
func (c *Client) EvaluateAnswer(ctx context.Context, sessionID uuid.UUID, answerText string) (*EvaluationResult, error) {
	answer, err := c.AppendMessage(ctx, sessionID, types.MessageCreate{
		Sender:  types.SenderUser,
		Type:    types.TypeAnswer,
		Content: strings.TrimSpace(answerText),
	})
	if err != nil {
		return nil, err
	}

	result, err := c.ScoreAnswer(ctx, sessionID, answer.ID)
	if err != nil {
		return &EvaluationResult{Answer: *answer}, err
	}
	result.Answer = *answer
	return result, nil
}

// ScoreAnswer requests evaluation of an already-persisted answer
// message. Used for the second half of EvaluateAnswer and for retrying
// feedback after a partial application without duplicating the answer.
func (c *Client) ScoreAnswer(ctx context.Context, sessionID, messageID uuid.UUID) (*EvaluationResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID.String()+"/evaluate-answer", "session", nil,
		evaluateRequest{MessageID: messageID})
	if err != nil {
		return nil, withID(err, sessionID)
	}

	var payload types.EvaluationPayload
	if err := c.decode(env, "evaluation.schema.json", &payload); err != nil {
		return nil, err
	}
	return &EvaluationResult{
		Feedback:   payload.Feedback,
		Score:      payload.Score,
		Dimensions: payload.Dimensions,
		Session:    payload.Session,
	}, nil
}

// RequestNextQuestion asks the server to append a new ASSISTANT/QUESTION
// message and returns it.
func (c *Client) RequestNextQuestion(ctx context.Context, sessionID uuid.UUID) (*types.Message, error) {
	env, err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID.String()+"/next-question", "session", nil, nil)
	if err != nil {
		return nil, withID(err, sessionID)
	}

	var question types.Message
	if err := c.decode(env, "message.schema.json", &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// PostChatTurn sends one user utterance and receives every message the
// server created for it in one round trip. Preferred over the
// append/evaluate/next-question sequence because it removes the
// two-call race.
func (c *Client) PostChatTurn(ctx context.Context, sessionID uuid.UUID, text string) (*types.ChatTurnPayload, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ValidationError{Field: "content", Message: "message content must not be blank"}
	}

	env, err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID.String()+"/chat-turn", "session", nil,
		chatTurnRequest{Content: trimmed})
	if err != nil {
		return nil, withID(err, sessionID)
	}

	var payload types.ChatTurnPayload
	if err := c.decode(env, "chat_turn.schema.json", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
