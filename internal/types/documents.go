package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume represents an uploaded resume with its extracted entity map.
// Entity contents are opaque to the prep core; only the ID is consumed
// when creating TARGETED sessions.
type Resume struct {
	ID        uuid.UUID           `json:"id"`
	UserID    *uuid.UUID          `json:"user_id,omitempty"`
	Entities  map[string][]string `json:"entities"`
	RawText   *string             `json:"raw_text,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// JobPosting represents a stored job posting with its extracted entities.
type JobPosting struct {
	ID        uuid.UUID           `json:"id"`
	UserID    *uuid.UUID          `json:"user_id,omitempty"`
	Title     string              `json:"title"`
	Company   string              `json:"company"`
	Entities  map[string][]string `json:"entities"`
	RawText   *string             `json:"raw_text,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// JobPostingCreate represents the request body for storing a job posting.
type JobPostingCreate struct {
	UserID   *uuid.UUID          `json:"user_id,omitempty"`
	Title    string              `json:"title"`
	Company  string              `json:"company"`
	Entities map[string][]string `json:"entities,omitempty"`
	RawText  *string             `json:"raw_text,omitempty"`
}

// ExtractResult is the payload of the resume/job extraction endpoints:
// an entity map keyed by entity kind (NAME, EMAIL, SKILL, ...) plus the
// raw text the extractor worked from.
type ExtractResult struct {
	Entities map[string][]string `json:"entities"`
	RawText  *string             `json:"raw_text,omitempty"`
}

// DeleteCountPayload is returned by bulk delete endpoints.
type DeleteCountPayload struct {
	DeletedCount int `json:"deleted_count"`
}
