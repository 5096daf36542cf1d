package types

// Role is the presentation role of a message bubble. Rendering surfaces
// dispatch on Role instead of re-deriving styling from (sender, type)
// pairs scattered through display code.
type Role string

const (
	// RolePrompt is a fresh user prompt opening a question cycle
	RolePrompt Role = "prompt"
	// RoleQuestion is an interview question from the assistant
	RoleQuestion Role = "question"
	// RoleAnswer is the candidate's answer
	RoleAnswer Role = "answer"
	// RoleFeedback is the assistant's evaluation of an answer
	RoleFeedback Role = "feedback"
	// RoleNote is anything that doesn't fit the Q&A cycle
	RoleNote Role = "note"
)

type roleKey struct {
	sender Sender
	typ    MessageType
}

var roleTable = map[roleKey]Role{
	{SenderUser, TypeQuestion}:      RolePrompt,
	{SenderUser, TypeAnswer}:        RoleAnswer,
	{SenderAssistant, TypeQuestion}: RoleQuestion,
	{SenderAssistant, TypeFeedback}: RoleFeedback,
}

// RoleFor maps a (sender, type) pair to its presentation role.
// Unknown combinations fall back to RoleNote rather than failing.
func RoleFor(sender Sender, typ MessageType) Role {
	if role, ok := roleTable[roleKey{sender, typ}]; ok {
		return role
	}
	return RoleNote
}
