package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/prep-agent/internal/api"
	"github.com/jonathan/prep-agent/internal/types"
)

var newSessionCmd = &cobra.Command{
	Use:   "new-session",
	Short: "Create a new prep session",
	Long: `Create a new prep session. QUICK_PRACTICE sessions need no documents;
TARGETED sessions require both a resume and a job posting. When the ids are
missing for a targeted session, the available documents are listed.`,
	RunE: runNewSession,
}

var (
	newSessionMode  string
	newSessionResID string
	newSessionJobID string
)

func init() {
	newSessionCmd.Flags().StringVarP(&newSessionMode, "mode", "m", string(types.ModeQuickPractice), "Session mode: TARGETED or QUICK_PRACTICE")
	newSessionCmd.Flags().StringVar(&newSessionResID, "resume-id", "", "Resume UUID (required for TARGETED)")
	newSessionCmd.Flags().StringVar(&newSessionJobID, "job-id", "", "Job posting UUID (required for TARGETED)")

	rootCmd.AddCommand(newSessionCmd)
}

func runNewSession(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	userID, err := userIDFromConfig(cfg)
	if err != nil {
		return err
	}

	mode := types.SessionMode(strings.ToUpper(strings.TrimSpace(newSessionMode)))
	spec := types.PrepSessionCreate{Mode: mode, UserID: userID}

	if newSessionResID != "" {
		id, err := uuid.Parse(newSessionResID)
		if err != nil {
			return fmt.Errorf("invalid --resume-id: %w", err)
		}
		spec.ResumeID = &id
	}
	if newSessionJobID != "" {
		id, err := uuid.Parse(newSessionJobID)
		if err != nil {
			return fmt.Errorf("invalid --job-id: %w", err)
		}
		spec.JobPostingID = &id
	}

	// Targeted without documents: list what's available instead of
	// bouncing off server-side validation.
	if mode == types.ModeTargeted && (spec.ResumeID == nil || spec.JobPostingID == nil) {
		if err := printAvailableDocuments(ctx, client, userID); err != nil {
			return err
		}
		return fmt.Errorf("TARGETED sessions require --resume-id and --job-id")
	}

	session, err := client.CreateSession(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created %s session %s\n", session.Mode, session.ID)
	fmt.Fprintf(os.Stdout, "Start practicing with: prep_agent chat --session %s\n", session.ID)
	return nil
}

// documentLister is the slice of the API client the document listing needs.
type documentLister interface {
	ListResumes(ctx context.Context, page, pageSize int, userID *uuid.UUID) (*api.ResumeList, error)
	ListJobPostings(ctx context.Context, page, pageSize int, userID *uuid.UUID) (*api.JobPostingList, error)
}

// printAvailableDocuments fetches resumes and job postings concurrently
// and prints their ids so the user can pick a pair.
func printAvailableDocuments(ctx context.Context, client documentLister, userID *uuid.UUID) error {
	var (
		resumes []types.Resume
		jobs    []types.JobPosting
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := client.ListResumes(gctx, 1, 20, userID)
		if err != nil {
			return fmt.Errorf("failed to list resumes: %w", err)
		}
		resumes = list.Resumes
		return nil
	})
	g.Go(func() error {
		list, err := client.ListJobPostings(gctx, 1, 20, userID)
		if err != nil {
			return fmt.Errorf("failed to list job postings: %w", err)
		}
		jobs = list.Postings
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if len(resumes) == 0 {
		fmt.Fprintln(os.Stdout, "No resumes uploaded yet. Add one with: prep_agent upload-resume <file.pdf>")
	} else {
		fmt.Fprintln(os.Stdout, "Available resumes:")
		for _, r := range resumes {
			label := "uploaded " + r.CreatedAt.Format("2006-01-02")
			if names := r.Entities["NAME"]; len(names) > 0 {
				label = names[0]
			}
			fmt.Fprintf(os.Stdout, "  %s  %s\n", r.ID, label)
		}
	}

	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "No job postings yet. Add one with: prep_agent ingest-job --url <posting-url>")
	} else {
		fmt.Fprintln(os.Stdout, "Available job postings:")
		for _, j := range jobs {
			fmt.Fprintf(os.Stdout, "  %s  %s\n", j.ID, j.Title)
		}
	}

	return nil
}
