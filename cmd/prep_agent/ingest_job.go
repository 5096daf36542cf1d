package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/ingestion"
	"github.com/jonathan/prep-agent/internal/observability"
	"github.com/jonathan/prep-agent/internal/types"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest a job posting from a text file or URL",
	Long: `Ingest a job posting from either a text file or URL, clean the content,
run backend entity extraction, and store the posting for TARGETED sessions.`,
	RunE: runIngestJob,
}

var (
	ingestJobTextFile   string
	ingestJobURL        string
	ingestJobOutDir     string
	ingestJobTitle      string
	ingestJobCompany    string
	ingestJobUseBrowser bool
	ingestJobNoStore    bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestJobTextFile, "text-file", "t", "", "Path to text or HTML file containing job posting")
	ingestJobCmd.Flags().StringVarP(&ingestJobURL, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&ingestJobOutDir, "out", "o", "", "Directory to write cleaned text and metadata for debugging (optional)")
	ingestJobCmd.Flags().StringVar(&ingestJobTitle, "title", "", "Job title for the stored posting (required unless --no-store)")
	ingestJobCmd.Flags().StringVar(&ingestJobCompany, "company", "", "Company name for the stored posting")
	ingestJobCmd.Flags().BoolVar(&ingestJobUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	ingestJobCmd.Flags().BoolVar(&ingestJobNoStore, "no-store", false, "Extract entities without storing the posting")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Validate mutually exclusive flags
	if ingestJobTextFile == "" && ingestJobURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if ingestJobTextFile != "" && ingestJobURL != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}
	if !ingestJobNoStore && ingestJobTitle == "" {
		return fmt.Errorf("--title is required when storing the posting (or pass --no-store)")
	}

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

	var cleanedText string
	var metadata *ingestion.Metadata

	// Ingest from either text file or URL
	if ingestJobTextFile != "" {
		cleanedText, metadata, err = ingestion.IngestFromFile(ingestJobTextFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
	} else {
		useBrowser := ingestJobUseBrowser || cfg.UseBrowser
		cleanedText, metadata, err = ingestion.IngestFromURL(ctx, ingestJobURL, useBrowser)
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
	}

	if ingestJobOutDir != "" {
		if err := ingestion.WriteOutput(ingestJobOutDir, cleanedText, metadata); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Cleaned text: %s/job_posting.cleaned.txt\n", ingestJobOutDir)
		fmt.Fprintf(os.Stdout, "Metadata: %s/job_posting.meta.json\n", ingestJobOutDir)
	}

	extracted, err := ingestion.ExtractRemote(ctx, client, cleanedText, true)
	if err != nil {
		return fmt.Errorf("entity extraction failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintEntities(extracted)

	if ingestJobNoStore {
		return nil
	}

	posting, err := client.CreateJobPosting(ctx, types.JobPostingCreate{
		UserID:   userID,
		Title:    ingestJobTitle,
		Company:  ingestJobCompany,
		Entities: extracted.Entities,
		RawText:  &cleanedText,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Stored job posting %s\n", posting.ID)
	fmt.Fprintf(os.Stdout, "Use it with: prep_agent new-session --mode TARGETED --job-id %s --resume-id <resume-id>\n", posting.ID)
	return nil
}
