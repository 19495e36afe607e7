// internal/store/conversations.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/models"
)

// ConversationStore appends message turns to conversation threads, one
// thread per (restaurant, customer, channel).
type ConversationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewConversationStore(db *sql.DB, log logger.Logger) *ConversationStore {
	return &ConversationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "conversation-store"}),
	}
}

// Append logs turns for a thread. The messages column is a JSONB array,
// so appends to an existing thread concatenate server-side.
func (s *ConversationStore) Append(ctx context.Context, restaurantID, customerID, channel string, turns []models.ConversationTurn) error {
	payload, err := json.Marshal(turns)
	if err != nil {
		return errors.NewConversationLogFailedError(fmt.Errorf("encode turns: %w", err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (restaurant_id, customer_id, channel, messages)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (restaurant_id, customer_id, channel)
		DO UPDATE SET messages = conversations.messages || $4, updated_at = CURRENT_TIMESTAMP`,
		restaurantID, customerID, channel, payload)
	if err != nil {
		return errors.NewConversationLogFailedError(err)
	}

	s.logger.Debug("conversation turns appended", map[string]interface{}{
		"restaurantId": restaurantID,
		"customerId":   customerID,
		"channel":      channel,
		"turnCount":    len(turns),
	})
	return nil
}
