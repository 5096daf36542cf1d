// Package session composes the turn classifier and the mutation gateway
// into the single send operation a chat surface calls. It owns the
// per-session transcript stores and the per-session in-flight state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/prep-agent/internal/api"
	"github.com/jonathan/prep-agent/internal/transcript"
	"github.com/jonathan/prep-agent/internal/turns"
	"github.com/jonathan/prep-agent/internal/types"
)

// ErrSendInFlight rejects a send issued while a previous send on the
// same session is unresolved. Sends are rejected, never queued, so
// message append order always matches call order.
var ErrSendInFlight = errors.New("a send is already in flight for this session")

// ErrSessionNotOpen means Send was called for a session that was never
// opened (or was closed) on this orchestrator.
var ErrSessionNotOpen = errors.New("session is not open")

// PartialEvalError reports that the answer was appended but the
// evaluation call failed. The transcript keeps the answer; the caller
// retries feedback via RetryFeedback without re-submitting the answer.
type PartialEvalError struct {
	AnswerID uuid.UUID
	Cause    error
}

func (e *PartialEvalError) Error() string {
	return fmt.Sprintf("answer was recorded but evaluation failed: %v", e.Cause)
}

func (e *PartialEvalError) Unwrap() error {
	return e.Cause
}

// Gateway is the slice of the API client the orchestrator drives.
type Gateway interface {
	GetSessionWithMessages(ctx context.Context, id uuid.UUID) (*types.PrepSessionWithMessages, error)
	AppendMessage(ctx context.Context, sessionID uuid.UUID, draft types.MessageCreate) (*types.Message, error)
	EvaluateAnswer(ctx context.Context, sessionID uuid.UUID, answerText string) (*api.EvaluationResult, error)
	ScoreAnswer(ctx context.Context, sessionID, messageID uuid.UUID) (*api.EvaluationResult, error)
	RequestNextQuestion(ctx context.Context, sessionID uuid.UUID) (*types.Message, error)
	PostChatTurn(ctx context.Context, sessionID uuid.UUID, text string) (*types.ChatTurnPayload, error)
}

// SendResult reports what one send applied to the transcript.
type SendResult struct {
	// Turn is the classification that selected the operation.
	Turn turns.State
	// Messages are the server-confirmed messages applied, in order.
	Messages []types.Message
	// Score and Dimensions are set on the evaluate path when returned.
	Score      *float64
	Dimensions []string
	// Session is the updated session when the server recomputed
	// readiness score or summary.
	Session *types.PrepSession
}

// Options configures the orchestrator.
type Options struct {
	// Legacy switches the fresh-input path from the unified chat-turn
	// endpoint to the older append + next-question call pair. One
	// variant is active at a time.
	Legacy bool
	Logger *logrus.Logger
}

// Orchestrator owns the conversational state machine for open sessions.
// Per-session state is IDLE or SENDING, keyed by session id, so
// multiple open sessions never share one in-flight flag.
type Orchestrator struct {
	gw  Gateway
	log *logrus.Logger

	legacy bool

	mu          sync.Mutex
	stores      map[uuid.UUID]*transcript.Store
	sending     map[uuid.UUID]bool
	pendingEval map[uuid.UUID]uuid.UUID // session id -> answer awaiting feedback
}

// New creates an orchestrator on top of a gateway.
func New(gw Gateway, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Orchestrator{
		gw:          gw,
		log:         log,
		legacy:      opts.Legacy,
		stores:      map[uuid.UUID]*transcript.Store{},
		sending:     map[uuid.UUID]bool{},
		pendingEval: map[uuid.UUID]uuid.UUID{},
	}
}

// Open fetches a session with its transcript and returns its store.
// Opening an already-open session refreshes it in place.
func (o *Orchestrator) Open(ctx context.Context, id uuid.UUID) (*transcript.Store, error) {
	fetched, err := o.gw.GetSessionWithMessages(ctx, id)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	store, ok := o.stores[id]
	if !ok {
		store = transcript.NewStore(fetched.PrepSession)
		o.stores[id] = store
	}
	o.mu.Unlock()

	store.Load(fetched.PrepSession, fetched.Messages)
	return store, nil
}

// Store returns the open store for a session, or nil.
func (o *Orchestrator) Store(id uuid.UUID) *transcript.Store {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stores[id]
}

// Close discards a session's store. Results of calls still in flight
// for it are dropped instead of mutating a view nobody displays.
func (o *Orchestrator) Close(id uuid.UUID) {
	o.mu.Lock()
	store := o.stores[id]
	delete(o.stores, id)
	delete(o.pendingEval, id)
	o.mu.Unlock()
	if store != nil {
		store.Close()
	}
}

// Send is the single entry point for user input on a session.
func (o *Orchestrator) Send(ctx context.Context, sessionID uuid.UUID, rawInput string) (*SendResult, error) {
	text := strings.TrimSpace(rawInput)
	if text == "" {
		return nil, &api.ValidationError{Field: "input", Message: "nothing to send"}
	}

	store, err := o.begin(sessionID)
	if err != nil {
		return nil, err
	}
	defer o.end(sessionID)

	state := turns.Classify(store.Messages())
	o.log.WithFields(logrus.Fields{"session": sessionID, "turn": state}).Debug("send")

	if state == turns.AwaitingAnswer {
		return o.sendAnswer(ctx, sessionID, store, text)
	}
	if o.legacy {
		return o.sendFreshLegacy(ctx, sessionID, store, text)
	}
	return o.sendFreshUnified(ctx, sessionID, store, text)
}

// RetryFeedback re-requests evaluation for the answer left without
// feedback by a partial application. The answer is not re-submitted.
func (o *Orchestrator) RetryFeedback(ctx context.Context, sessionID uuid.UUID) (*SendResult, error) {
	store, err := o.begin(sessionID)
	if err != nil {
		return nil, err
	}
	defer o.end(sessionID)

	o.mu.Lock()
	answerID, ok := o.pendingEval[sessionID]
	o.mu.Unlock()
	if !ok {
		return nil, &api.ValidationError{Field: "session", Message: "no answer is awaiting feedback"}
	}

	result, err := o.gw.ScoreAnswer(ctx, sessionID, answerID)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	delete(o.pendingEval, sessionID)
	o.mu.Unlock()

	store.Append(result.Feedback)
	if result.Session != nil {
		store.UpdateSession(*result.Session)
	}
	return &SendResult{
		Turn:       turns.AwaitingAnswer,
		Messages:   []types.Message{result.Feedback},
		Score:      result.Score,
		Dimensions: result.Dimensions,
		Session:    result.Session,
	}, nil
}

// sendAnswer runs the evaluate path: the input answers the pending
// question.
func (o *Orchestrator) sendAnswer(ctx context.Context, sessionID uuid.UUID, store *transcript.Store, text string) (*SendResult, error) {
	tempID := store.AppendPending(types.SenderUser, types.TypeAnswer, text)

	result, err := o.gw.EvaluateAnswer(ctx, sessionID, text)
	if err != nil {
		if result == nil {
			// The answer never reached the server.
			store.Reject(tempID)
			return nil, err
		}
		// Partial application: answer persisted, scoring failed.
		store.Confirm(tempID, result.Answer)
		o.mu.Lock()
		o.pendingEval[sessionID] = result.Answer.ID
		o.mu.Unlock()
		o.log.WithFields(logrus.Fields{"session": sessionID, "answer": result.Answer.ID}).
			Warn("answer recorded but evaluation failed")
		return &SendResult{
				Turn:     turns.AwaitingAnswer,
				Messages: []types.Message{result.Answer},
			}, &PartialEvalError{
				AnswerID: result.Answer.ID,
				Cause:    err,
			}
	}

	store.Confirm(tempID, result.Answer)
	store.Append(result.Feedback)
	if result.Session != nil {
		store.UpdateSession(*result.Session)
	}
	return &SendResult{
		Turn:       turns.AwaitingAnswer,
		Messages:   []types.Message{result.Answer, result.Feedback},
		Score:      result.Score,
		Dimensions: result.Dimensions,
		Session:    result.Session,
	}, nil
}

// sendFreshUnified runs the fresh-input path over the unified chat-turn
// endpoint: one round trip returns every message the server created.
func (o *Orchestrator) sendFreshUnified(ctx context.Context, sessionID uuid.UUID, store *transcript.Store, text string) (*SendResult, error) {
	tempID := store.AppendPending(types.SenderUser, types.TypeQuestion, text)

	payload, err := o.gw.PostChatTurn(ctx, sessionID, text)
	if err != nil {
		store.Reject(tempID)
		return nil, err
	}

	// Reconcile the optimistic message with the server's echo of it,
	// keeping its position; everything else appends after.
	rest := payload.NewMessages
	echoed := false
	for i, msg := range payload.NewMessages {
		if msg.Sender == types.SenderUser {
			store.Confirm(tempID, msg)
			echoed = true
			rest = append(append([]types.Message{}, payload.NewMessages[:i]...), payload.NewMessages[i+1:]...)
			break
		}
	}
	if !echoed {
		// The server accepted the turn without echoing the prompt.
		// Settle the optimistic entry with the local copy so it does
		// not stay marked in-flight.
		store.Confirm(tempID, types.Message{
			ID:        tempID,
			SessionID: sessionID,
			Sender:    types.SenderUser,
			Type:      types.TypeQuestion,
			Content:   text,
			CreatedAt: time.Now().UTC(),
		})
	}
	store.AppendMany(rest)
	if payload.Session != nil {
		store.UpdateSession(*payload.Session)
	}
	return &SendResult{
		Turn:     turns.AwaitingFreshInput,
		Messages: payload.NewMessages,
		Session:  payload.Session,
	}, nil
}

// sendFreshLegacy runs the fresh-input path over the older call pair:
// append the prompt, then ask for the next question.
func (o *Orchestrator) sendFreshLegacy(ctx context.Context, sessionID uuid.UUID, store *transcript.Store, text string) (*SendResult, error) {
	tempID := store.AppendPending(types.SenderUser, types.TypeQuestion, text)

	prompt, err := o.gw.AppendMessage(ctx, sessionID, types.MessageCreate{
		Sender:  types.SenderUser,
		Type:    types.TypeQuestion,
		Content: text,
	})
	if err != nil {
		store.Reject(tempID)
		return nil, err
	}
	store.Confirm(tempID, *prompt)

	question, err := o.gw.RequestNextQuestion(ctx, sessionID)
	if err != nil {
		// The prompt is applied; no rollback. The caller sees the
		// classified failure and may retry the question request.
		return &SendResult{
			Turn:     turns.AwaitingFreshInput,
			Messages: []types.Message{*prompt},
		}, err
	}

	store.Append(*question)
	return &SendResult{
		Turn:     turns.AwaitingFreshInput,
		Messages: []types.Message{*prompt, *question},
	}, nil
}

// begin transitions a session from IDLE to SENDING, rejecting
// concurrent sends on the same session.
func (o *Orchestrator) begin(sessionID uuid.UUID) (*transcript.Store, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	store, ok := o.stores[sessionID]
	if !ok {
		return nil, ErrSessionNotOpen
	}
	if o.sending[sessionID] {
		return nil, ErrSendInFlight
	}
	o.sending[sessionID] = true
	return store, nil
}

// end transitions a session back to IDLE on success or failure alike.
func (o *Orchestrator) end(sessionID uuid.UUID) {
	o.mu.Lock()
	delete(o.sending, sessionID)
	o.mu.Unlock()
}

// AwaitingFeedback reports whether a session has an answer recorded
// without feedback, i.e. RetryFeedback would do something.
func (o *Orchestrator) AwaitingFeedback(sessionID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pendingEval[sessionID]
	return ok
}
