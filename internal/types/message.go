// Package types provides type definitions for structured data used throughout the prep-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	// SenderUser is a message typed by the candidate
	SenderUser Sender = "USER"
	// SenderAssistant is a message produced by the interview assistant
	SenderAssistant Sender = "ASSISTANT"
)

// MessageType classifies the conversational role of a message.
type MessageType string

const (
	// TypeQuestion is an interview question or a fresh user prompt
	TypeQuestion MessageType = "QUESTION"
	// TypeAnswer is the candidate's answer to a pending question
	TypeAnswer MessageType = "ANSWER"
	// TypeFeedback is the assistant's evaluation of an answer
	TypeFeedback MessageType = "FEEDBACK"
)

// Message represents one entry in a prep session transcript.
// Messages are immutable once created; transcript order is CreatedAt
// ascending, then insertion order for equal timestamps.
type Message struct {
	ID        uuid.UUID         `json:"id"`
	SessionID uuid.UUID         `json:"session_id"`
	Sender    Sender            `json:"sender"`
	Type      MessageType       `json:"type"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// MessageCreate represents the request body for appending a message to a session.
type MessageCreate struct {
	Sender   Sender            `json:"sender" validate:"required,oneof=USER ASSISTANT"`
	Type     MessageType       `json:"type" validate:"required,oneof=QUESTION ANSWER FEEDBACK"`
	Content  string            `json:"content" validate:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate validates the MessageCreate using the validator.
// Content must be non-empty after trimming whitespace.
func (m *MessageCreate) Validate() error {
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message content must not be blank")
	}
	validate := validator.New()
	return validate.Struct(m)
}
