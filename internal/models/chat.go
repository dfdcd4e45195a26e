package models

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of the document conversation. The ordered sequence
// of messages forms the transcript; it is append-only within a session.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
