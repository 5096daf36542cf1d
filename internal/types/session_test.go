// Package types provides type definitions for structured data used throughout the prep-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uuidPtr(t *testing.T) *uuid.UUID {
	t.Helper()
	id := uuid.New()
	return &id
}

func TestPrepSessionCreate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    PrepSessionCreate
		wantErr string
	}{
		{
			name: "targeted with both ids",
			spec: PrepSessionCreate{
				Mode:         ModeTargeted,
				ResumeID:     uuidPtr(t),
				JobPostingID: uuidPtr(t),
			},
		},
		{
			name: "targeted missing resume id",
			spec: PrepSessionCreate{
				Mode:         ModeTargeted,
				JobPostingID: uuidPtr(t),
			},
			wantErr: "resume_id",
		},
		{
			name: "targeted missing job posting id",
			spec: PrepSessionCreate{
				Mode:     ModeTargeted,
				ResumeID: uuidPtr(t),
			},
			wantErr: "job_posting_id",
		},
		{
			name: "quick practice with no ids",
			spec: PrepSessionCreate{Mode: ModeQuickPractice},
		},
		{
			name: "quick practice with a resume id",
			spec: PrepSessionCreate{
				Mode:     ModeQuickPractice,
				ResumeID: uuidPtr(t),
			},
			wantErr: "must not reference",
		},
		{
			name:    "missing mode",
			spec:    PrepSessionCreate{},
			wantErr: "required",
		},
		{
			name:    "unknown mode",
			spec:    PrepSessionCreate{Mode: "FREESTYLE"},
			wantErr: "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPrepSession_JSONRoundTrip(t *testing.T) {
	score := 7.5
	session := PrepSession{
		ID:             uuid.New(),
		Mode:           ModeQuickPractice,
		Status:         StatusActive,
		ReadinessScore: &score,
		Summary:        map[string]string{"strengths": "concurrency"},
	}

	jsonBytes, err := json.Marshal(session)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"mode":"QUICK_PRACTICE"`)
	assert.Contains(t, string(jsonBytes), `"readiness_score":7.5`)

	var decoded PrepSession
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, session.ID, decoded.ID)
	require.NotNil(t, decoded.ReadinessScore)
	assert.Equal(t, 7.5, *decoded.ReadinessScore)
	assert.Equal(t, "concurrency", decoded.Summary["strengths"])
	assert.Nil(t, decoded.ResumeID)
}
