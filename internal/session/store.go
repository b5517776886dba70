// README: Session store contract; role-tagged chat history keyed by session id.
package session

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store keeps chat history per session. A session exists from its first
// Append; Get on an unknown id returns an empty history.
type Store interface {
	Append(ctx context.Context, sessionID string, msgs ...Message) error
	Get(ctx context.Context, sessionID string) ([]Message, error)
	Close() error
}
