// internal/models/conversation.go
package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is a single logged message, stored as JSON inside the
// conversations table.
type ConversationTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewTurn stamps a turn with the current UTC time in RFC 3339 format.
func NewTurn(role, content string) ConversationTurn {
	return ConversationTurn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type Conversation struct {
	ID           int64              `json:"id"`
	RestaurantID string             `json:"restaurantId"`
	CustomerID   string             `json:"customerId"`
	Channel      string             `json:"channel"`
	Messages     []ConversationTurn `json:"messages"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
