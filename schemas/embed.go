// Package schemas holds the JSON Schema definitions for the wire
// payloads exchanged with the prep service.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Names lists every schema file, referenced schemas first so loaders
// can register them before compiling schemas that $ref them.
func Names() []string {
	return []string{
		"message.schema.json",
		"prep_session.schema.json",
		"chat_turn.schema.json",
		"evaluation.schema.json",
		"extract_result.schema.json",
	}
}

// Read returns the raw bytes of a schema file by name.
func Read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	return data, nil
}
