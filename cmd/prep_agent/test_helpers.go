package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// getBinaryPath returns the path to the prep_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "prep_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// environmentWithout returns os.Environ() minus the named variable, so a
// test can exercise the unset-variable error path even when .env sets it.
func environmentWithout(name string) []string {
	var filtered []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, name+"=") {
			filtered = append(filtered, kv)
		}
	}
	return filtered
}
