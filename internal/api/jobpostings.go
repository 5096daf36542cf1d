package api

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/prep-agent/internal/types"
)

// JobPostingList is one page of job postings plus pagination info.
type JobPostingList struct {
	Postings []types.JobPosting
	Meta     *types.PageMeta
}

// jobFileTypes maps accepted job posting upload extensions. The
// extraction service also reads screenshots of postings.
var jobFileTypes = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ListJobPostings returns one page of stored job postings.
func (c *Client) ListJobPostings(ctx context.Context, page, pageSize int, userID *uuid.UUID) (*JobPostingList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if userID != nil {
		query.Set("user_id", userID.String())
	}

	env, err := c.do(ctx, http.MethodGet, "/job-postings", "job posting", query, nil)
	if err != nil {
		return nil, err
	}

	var postings []types.JobPosting
	if err := c.decode(env, "", &postings); err != nil {
		return nil, err
	}
	return &JobPostingList{Postings: postings, Meta: env.Meta}, nil
}

// GetJobPosting retrieves a stored job posting by id.
func (c *Client) GetJobPosting(ctx context.Context, id uuid.UUID) (*types.JobPosting, error) {
	env, err := c.do(ctx, http.MethodGet, "/job-postings/"+id.String(), "job posting", nil, nil)
	if err != nil {
		return nil, withID(err, id)
	}

	var posting types.JobPosting
	if err := c.decode(env, "", &posting); err != nil {
		return nil, err
	}
	return &posting, nil
}

// CreateJobPosting stores a job posting with its extracted entities.
func (c *Client) CreateJobPosting(ctx context.Context, spec types.JobPostingCreate) (*types.JobPosting, error) {
	if strings.TrimSpace(spec.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "job posting title must not be blank"}
	}

	env, err := c.do(ctx, http.MethodPost, "/job-postings", "job posting", nil, spec)
	if err != nil {
		return nil, err
	}

	var posting types.JobPosting
	if err := c.decode(env, "", &posting); err != nil {
		return nil, err
	}
	return &posting, nil
}

// ExtractJobFromFile uploads a job posting file (PDF or image) to the
// extraction endpoint. When validate is true the server double-checks
// the extraction before returning it.
func (c *Client) ExtractJobFromFile(ctx context.Context, fileName string, file []byte, validate bool) (*types.ExtractResult, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !jobFileTypes[ext] {
		return nil, &ValidationError{
			Field:   "file",
			Message: "only PDF and image files (PNG, JPEG, WebP) are supported, paste the job text instead",
		}
	}

	env, err := c.doMultipart(ctx, "/jobs/extract", "job posting", extractQuery(validate), nil, fileName, file)
	if err != nil {
		return nil, err
	}

	var result types.ExtractResult
	if err := c.decode(env, "extract_result.schema.json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractJobFromText sends pasted or ingested job description text to
// the extraction endpoint.
func (c *Client) ExtractJobFromText(ctx context.Context, text string, validate bool) (*types.ExtractResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ValidationError{Field: "text", Message: "job description text must not be blank"}
	}

	env, err := c.doMultipart(ctx, "/jobs/extract", "job posting", extractQuery(validate), map[string]string{"text": trimmed}, "", nil)
	if err != nil {
		return nil, err
	}

	var result types.ExtractResult
	if err := c.decode(env, "extract_result.schema.json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func extractQuery(validate bool) url.Values {
	if !validate {
		return nil
	}
	query := url.Values{}
	query.Set("validate", "true")
	return query
}
