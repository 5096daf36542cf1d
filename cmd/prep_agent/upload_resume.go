package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/observability"
)

var uploadResumeCmd = &cobra.Command{
	Use:   "upload-resume [file.pdf]",
	Short: "Upload a resume for entity extraction",
	Long: `Upload a resume PDF (or pasted text via --text-file) to the extraction
endpoint. The recognized entities are printed; the stored resume id can then
be used for TARGETED sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUploadResume,
}

var uploadResumeTextFile string

func init() {
	uploadResumeCmd.Flags().StringVarP(&uploadResumeTextFile, "text-file", "t", "", "Path to a plain text file with the resume content")

	rootCmd.AddCommand(uploadResumeCmd)
}

func runUploadResume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 0 && uploadResumeTextFile == "" {
		return fmt.Errorf("provide a PDF file argument or --text-file")
	}
	if len(args) == 1 && uploadResumeTextFile != "" {
		return fmt.Errorf("a PDF argument and --text-file are mutually exclusive; provide only one")
	}

	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	if uploadResumeTextFile != "" {
		content, err := os.ReadFile(uploadResumeTextFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		extracted, err := client.ExtractResumeFromText(ctx, string(content))
		if err != nil {
			return err
		}
		printer.PrintEntities(extracted)
		return nil
	}

	path := args[0]
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	extracted, err := client.ExtractResumeFromFile(ctx, filepath.Base(path), file)
	if err != nil {
		return err
	}
	printer.PrintEntities(extracted)
	return nil
}
