package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SessionMode selects how a prep session is grounded.
type SessionMode string

const (
	// ModeTargeted practices against a specific resume/job-posting pair
	ModeTargeted SessionMode = "TARGETED"
	// ModeQuickPractice practices without any uploaded documents
	ModeQuickPractice SessionMode = "QUICK_PRACTICE"
)

// SessionStatus is the lifecycle state of a prep session.
type SessionStatus string

const (
	// StatusActive is a session still accepting turns
	StatusActive SessionStatus = "ACTIVE"
	// StatusCompleted is a session the user finished
	StatusCompleted SessionStatus = "COMPLETED"
	// StatusCancelled is a session the user abandoned
	StatusCancelled SessionStatus = "CANCELLED"
)

// PrepSession represents one interview practice session. The server owns
// ReadinessScore and Summary; clients only ever read them.
type PrepSession struct {
	ID             uuid.UUID         `json:"id"`
	UserID         *uuid.UUID        `json:"user_id,omitempty"`
	ResumeID       *uuid.UUID        `json:"resume_id,omitempty"`
	JobPostingID   *uuid.UUID        `json:"job_posting_id,omitempty"`
	Mode           SessionMode       `json:"mode"`
	Status         SessionStatus     `json:"status"`
	ReadinessScore *float64          `json:"readiness_score,omitempty"`
	Summary        map[string]string `json:"summary,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// PrepSessionWithMessages is a session plus its full ordered transcript.
type PrepSessionWithMessages struct {
	PrepSession
	Messages []Message `json:"messages"`
}

// PrepSessionCreate represents the request body for creating a session.
type PrepSessionCreate struct {
	UserID       *uuid.UUID  `json:"user_id,omitempty"`
	ResumeID     *uuid.UUID  `json:"resume_id,omitempty"`
	JobPostingID *uuid.UUID  `json:"job_posting_id,omitempty"`
	Mode         SessionMode `json:"mode" validate:"required,oneof=TARGETED QUICK_PRACTICE"`
}

// Validate checks the mode invariant before any network call is made:
// TARGETED requires both resume_id and job_posting_id, QUICK_PRACTICE
// requires neither.
func (s *PrepSessionCreate) Validate() error {
	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return err
	}

	switch s.Mode {
	case ModeTargeted:
		if s.ResumeID == nil || s.JobPostingID == nil {
			return fmt.Errorf("TARGETED sessions require both resume_id and job_posting_id")
		}
	case ModeQuickPractice:
		if s.ResumeID != nil || s.JobPostingID != nil {
			return fmt.Errorf("QUICK_PRACTICE sessions must not reference a resume or job posting")
		}
	}
	return nil
}
