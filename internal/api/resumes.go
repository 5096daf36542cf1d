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

// ResumeList is one page of resumes plus pagination info.
type ResumeList struct {
	Resumes []types.Resume
	Meta    *types.PageMeta
}

// resumeFileTypes maps accepted resume upload extensions. The service
// only extracts from PDFs; anything else should be pasted as text.
var resumeFileTypes = map[string]bool{
	".pdf": true,
}

type updateEntitiesRequest struct {
	Entities map[string][]string `json:"entities"`
}

// ExtractResumeFromFile uploads a resume PDF to the extraction endpoint
// and returns the entity map. Unsupported file types fail locally.
func (c *Client) ExtractResumeFromFile(ctx context.Context, fileName string, file []byte) (*types.ExtractResult, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !resumeFileTypes[ext] {
		return nil, &ValidationError{
			Field:   "file",
			Message: "only PDF files are supported for resume upload, paste the text instead",
		}
	}

	env, err := c.doMultipart(ctx, "/resumes/extract", "resume", nil, nil, fileName, file)
	if err != nil {
		return nil, err
	}

	var result types.ExtractResult
	if err := c.decode(env, "extract_result.schema.json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractResumeFromText sends pasted resume text to the extraction endpoint.
func (c *Client) ExtractResumeFromText(ctx context.Context, text string) (*types.ExtractResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ValidationError{Field: "text", Message: "resume text must not be blank"}
	}

	env, err := c.doMultipart(ctx, "/resumes/extract", "resume", nil, map[string]string{"text": trimmed}, "", nil)
	if err != nil {
		return nil, err
	}

	var result types.ExtractResult
	if err := c.decode(env, "extract_result.schema.json", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResumes returns one page of stored resumes.
func (c *Client) ListResumes(ctx context.Context, page, pageSize int, userID *uuid.UUID) (*ResumeList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if userID != nil {
		query.Set("user_id", userID.String())
	}

	env, err := c.do(ctx, http.MethodGet, "/resumes", "resume", query, nil)
	if err != nil {
		return nil, err
	}

	var resumes []types.Resume
	if err := c.decode(env, "", &resumes); err != nil {
		return nil, err
	}
	return &ResumeList{Resumes: resumes, Meta: env.Meta}, nil
}

// UpdateResumeEntities patches the entity map of a stored resume.
func (c *Client) UpdateResumeEntities(ctx context.Context, resumeID uuid.UUID, entities map[string][]string) (*types.Resume, error) {
	if len(entities) == 0 {
		return nil, &ValidationError{Field: "entities", Message: "no entity updates provided"}
	}

	env, err := c.do(ctx, http.MethodPatch, "/resumes/"+resumeID.String(), "resume", nil,
		updateEntitiesRequest{Entities: entities})
	if err != nil {
		return nil, withID(err, resumeID)
	}

	var resume types.Resume
	if err := c.decode(env, "", &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// DeleteAllResumes removes every stored resume and reports how many
// were deleted.
func (c *Client) DeleteAllResumes(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodDelete, "/resumes", "resume", nil, nil)
	if err != nil {
		return 0, err
	}

	var payload types.DeleteCountPayload
	if err := c.decode(env, "", &payload); err != nil {
		return 0, err
	}
	return payload.DeletedCount, nil
}
