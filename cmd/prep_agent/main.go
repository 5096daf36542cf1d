// Package main provides the entry point for the interview prep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/prep-agent/internal/api"
	"github.com/jonathan/prep-agent/internal/config"
	"github.com/jonathan/prep-agent/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "prep_agent",
	Short: "Interview prep client",
	Long:  "prep_agent drives interview prep sessions against the prep service: practice Q&A with scored feedback, resume and job posting intake, and session management.",
}

var (
	rootConfigPath string
	rootAPIURL     string
	rootToken      string
	rootUserID     string
	rootVerbose    bool
	rootStrict     bool
)

var log = logrus.New()

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Base URL of the prep service (defaults to PREP_API_URL env var)")
	rootCmd.PersistentFlags().StringVar(&rootToken, "token", "", "Bearer token (defaults to PREP_API_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&rootUserID, "user-id", "", "User UUID scoping listings (defaults to PREP_USER_ID env var)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&rootStrict, "strict", false, "Validate response payloads against JSON Schemas")
}

// loadCLIConfig merges config file, CLI flags and environment into one
// Config. Flags beat the file, the file beats the environment.
func loadCLIConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("api-url") {
		cfg.APIBaseURL = rootAPIURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = rootToken
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = rootUserID
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = rootStrict
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIBaseURL: os.Getenv("PREP_API_URL"),
		Token:      os.Getenv("PREP_API_TOKEN"),
		UserID:     os.Getenv("PREP_USER_ID"),
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.APIBaseURL == "" {
		return cfg, fmt.Errorf("--api-url flag, config file, or PREP_API_URL env var is required")
	}

	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	}

	return cfg, nil
}

// newClient builds the API client from a merged config.
func newClient(cfg config.Config) (*api.Client, error) {
	opts := api.DefaultOptions()
	opts.Token = cfg.Token
	opts.Strict = cfg.Strict
	opts.Logger = log
	return api.NewClient(cfg.APIBaseURL, opts)
}

// userIDFromConfig parses the optional user id scoping list calls.
func userIDFromConfig(cfg config.Config) (*uuid.UUID, error) {
	if cfg.UserID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id format: %w", err)
	}
	return &id, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	log = logger.New()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
