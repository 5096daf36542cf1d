package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/prep-agent/internal/types"
)

// SessionList is one page of sessions plus pagination info.
type SessionList struct {
	Sessions []types.PrepSession
	Meta     *types.PageMeta
}

// CreateSession creates a new prep session. The TARGETED/QUICK_PRACTICE
// invariant is checked client-side before any network call.
func (c *Client) CreateSession(ctx context.Context, spec types.PrepSessionCreate) (*types.PrepSession, error) {
	if err := spec.Validate(); err != nil {
		return nil, &ValidationError{Field: "session", Message: err.Error(), Cause: err}
	}

	env, err := c.do(ctx, http.MethodPost, "/sessions", "session", nil, spec)
	if err != nil {
		return nil, err
	}

	var session types.PrepSession
	if err := c.decode(env, "prep_session.schema.json", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns one page of sessions, optionally filtered by user.
func (c *Client) ListSessions(ctx context.Context, page, pageSize int, userID *uuid.UUID) (*SessionList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if userID != nil {
		query.Set("user_id", userID.String())
	}

	env, err := c.do(ctx, http.MethodGet, "/sessions", "session", query, nil)
	if err != nil {
		return nil, err
	}

	var sessions []types.PrepSession
	if err := c.decode(env, "", &sessions); err != nil {
		return nil, err
	}
	return &SessionList{Sessions: sessions, Meta: env.Meta}, nil
}

// GetSession retrieves a session without its messages.
func (c *Client) GetSession(ctx context.Context, id uuid.UUID) (*types.PrepSession, error) {
	env, err := c.do(ctx, http.MethodGet, "/sessions/"+id.String(), "session", nil, nil)
	if err != nil {
		return nil, withID(err, id)
	}

	var session types.PrepSession
	if err := c.decode(env, "prep_session.schema.json", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionWithMessages retrieves a session and its ordered transcript.
func (c *Client) GetSessionWithMessages(ctx context.Context, id uuid.UUID) (*types.PrepSessionWithMessages, error) {
	env, err := c.do(ctx, http.MethodGet, "/sessions/"+id.String()+"/with-messages", "session", nil, nil)
	if err != nil {
		return nil, withID(err, id)
	}

	var session types.PrepSessionWithMessages
	if err := c.decode(env, "", &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendMessage persists one message. A draft whose content is blank
// after trimming fails with a ValidationError and no network call.
func (c *Client) AppendMessage(ctx context.Context, sessionID uuid.UUID, draft types.MessageCreate) (*types.Message, error) {
	draft.Content = strings.TrimSpace(draft.Content)
	if err := draft.Validate(); err != nil {
		return nil, &ValidationError{Field: "message", Message: err.Error(), Cause: err}
	}

	env, err := c.do(ctx, http.MethodPost, "/sessions/"+sessionID.String()+"/messages", "session", nil, draft)
	if err != nil {
		return nil, withID(err, sessionID)
	}

	var message types.Message
	if err := c.decode(env, "message.schema.json", &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns a session's transcript in ascending order.
func (c *Client) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]types.Message, error) {
	env, err := c.do(ctx, http.MethodGet, "/sessions/"+sessionID.String()+"/messages", "session", nil, nil)
	if err != nil {
		return nil, withID(err, sessionID)
	}

	var messages []types.Message
	if err := c.decode(env, "", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteSession deletes a session and cascades its messages. Deleting a
// session that is already gone classifies as NotFoundError; callers
// that treat delete as idempotent can ignore that case.
func (c *Client) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/sessions/"+id.String(), "session", nil, nil)
	return withID(err, id)
}

// withID stamps the session id onto a NotFoundError for better messages.
func withID(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if nfe, ok := err.(*NotFoundError); ok && nfe.ID == "" {
		nfe.ID = id.String()
	}
	return err
}
