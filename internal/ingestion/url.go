package ingestion

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/prep-agent/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// pages caches fetched postings for the lifetime of the process. The
// same URL is commonly fetched more than once per run (preview, then
// extraction) and some job boards rate-limit aggressively.
var pages = fetch.NewCachedFetcher(nil)

// IngestFromURL fetches a job posting page, extracts its text, cleans it, and
// returns the cleaned text with metadata. Platform detection picks
// platform-specific selectors for better content extraction. If useBrowser is
// true, falls back to headless browser for SPA sites with insufficient content.
// The cleaned text is what gets submitted to the backend extraction endpoint.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool) (string, *Metadata, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidURL, urlStr)
	}

	// Detect platform for platform-specific selectors
	platform := fetch.DetectPlatform(urlStr)
	logrus.WithFields(logrus.Fields{"url": urlStr, "platform": platform}).Debug("ingesting job posting")

	// Fetch HTML through the shared page cache
	result, err := pages.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	logrus.WithField("cached", result.FromCache).Debug("fetched page")

	// Get platform-specific selectors
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	// Extract text from HTML using platform-specific selectors and noise removal
	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	logrus.WithField("chars", len(textContent)).Debug("extracted text")

	// Check if we should use browser fallback for SPA sites
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		logrus.WithFields(logrus.Fields{
			"chars": len(textContent),
			"min":   fetch.MinContentLength,
		}).Debug("content too short, falling back to browser rendering")

		// Fetch with headless browser
		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr)
		if browserErr != nil {
			// Continue with HTTP content if browser fails
			logrus.WithError(browserErr).Debug("browser rendering failed, using HTTP content")
		} else {
			// Re-extract from browser-rendered HTML
			rendered, extractErr := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if extractErr == nil {
				textContent = rendered
			}
		}
	}

	// Clean text
	cleanedText := CleanText(textContent)

	// Generate metadata
	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)

	return cleanedText, metadata, nil
}
