// Package turns decides what the next user input to a prep session
// means: an answer to a pending interview question, or a fresh prompt
// that starts a new question cycle.
package turns

import "github.com/jonathan/prep-agent/internal/types"

// State is the classification of a transcript's current turn.
type State string

const (
	// AwaitingAnswer means the assistant asked a question and the next
	// user input is treated as the answer to it.
	AwaitingAnswer State = "awaiting_answer"
	// AwaitingFreshInput means the next user input opens a new
	// prompt/question cycle. The empty transcript classifies here.
	AwaitingFreshInput State = "awaiting_fresh_input"
)

// Classify derives the turn state from a transcript. Only the last
// message matters: ASSISTANT/QUESTION means an answer is pending,
// everything else (including an empty transcript) means fresh input.
// The result is derived, never stored; callers must re-classify after
// every transcript mutation.
func Classify(messages []types.Message) State {
	if len(messages) == 0 {
		return AwaitingFreshInput
	}
	last := messages[len(messages)-1]
	if last.Sender == types.SenderAssistant && last.Type == types.TypeQuestion {
		return AwaitingAnswer
	}
	return AwaitingFreshInput
}
