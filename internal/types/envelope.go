package types

import "encoding/json"

// PageMeta carries pagination info returned alongside list payloads.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Envelope is the wire shape of every API response:
// {message, success, payload, meta?}. Payload is decoded lazily so the
// gateway can classify failures before committing to a payload type.
type Envelope struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Payload json.RawMessage `json:"payload"`
	Meta    *PageMeta       `json:"meta,omitempty"`
}

// HasPayload reports whether the envelope carries a non-null payload.
func (e *Envelope) HasPayload() bool {
	return len(e.Payload) > 0 && string(e.Payload) != "null"
}

// ChatTurnPayload is returned by the unified chat-turn endpoint: every
// message the server created for one user utterance, in transcript
// order, plus the updated session when readiness/summary changed.
type ChatTurnPayload struct {
	NewMessages []Message    `json:"new_messages"`
	Session     *PrepSession `json:"session,omitempty"`
}

// EvaluationPayload is returned by the evaluate-answer endpoint.
type EvaluationPayload struct {
	Feedback   Message      `json:"feedback"`
	Score      *float64     `json:"score,omitempty"`
	Dimensions []string     `json:"dimensions,omitempty"`
	Session    *PrepSession `json:"session,omitempty"`
}
