package domain

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one entry in a chat session log.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatMessage(role ChatRole, text string) ChatMessage {
	return ChatMessage{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}
