package ingestion

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/prep-agent/internal/types"
)

// Extractor is the slice of the API client the ingestion flow needs:
// entity extraction runs on the backend, never locally.
type Extractor interface {
	ExtractJobFromText(ctx context.Context, text string, validate bool) (*types.ExtractResult, error)
}

// ExtractRemote submits cleaned job posting text to the backend extraction
// endpoint and returns the recognized entities.
func ExtractRemote(ctx context.Context, ex Extractor, text string, validate bool) (*types.ExtractResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no text to extract from")
	}
	return ex.ExtractJobFromText(ctx, text, validate)
}

// FormatEntities renders an extraction result as readable text, one
// section per entity label with stable ordering.
func FormatEntities(result *types.ExtractResult) string {
	if result == nil || len(result.Entities) == 0 {
		return ""
	}

	labels := make([]string, 0, len(result.Entities))
	for label := range result.Entities {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var sb strings.Builder
	for _, label := range labels {
		values := result.Entities[label]
		if len(values) == 0 {
			continue
		}
		sb.WriteString(label + ":\n")
		for _, value := range values {
			sb.WriteString("- " + value + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
