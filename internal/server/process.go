// internal/server/process.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/models"
)

const defaultChannel = "web"

// ProcessRequest is one inbound customer message.
type ProcessRequest struct {
	Message      string                 `json:"message"`
	Context      map[string]interface{} `json:"context"`
	RestaurantID string                 `json:"restaurant_id"`
	CustomerID   string                 `json:"customer_id"`
	Channel      string                 `json:"channel"`
}

// ProcessResponse carries the agent's answer plus the classification of
// the inbound message.
type ProcessResponse struct {
	Input         string  `json:"input"`
	Output        string  `json:"output"`
	Intent        string  `json:"intent"`
	Confidence    float64 `json:"confidence"`
	RequiresHuman bool    `json:"requires_human"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failProcess(w, r, start, errors.NewInvalidInputError(fmt.Sprintf("decode request: %v", err)))
		return
	}
	if req.Message == "" {
		s.failProcess(w, r, start, errors.NewInvalidInputError("message is required"))
		return
	}
	if req.RestaurantID == "" {
		s.failProcess(w, r, start, errors.NewInvalidInputError("restaurant_id is required"))
		return
	}
	if req.Channel == "" {
		req.Channel = defaultChannel
	}

	ag, err := s.agents.AgentFor(ctx, req.RestaurantID)
	if err != nil {
		s.failProcess(w, r, start, err)
		return
	}

	// Repeat questions are answered from the cache without touching the
	// model, the classifier, or the conversation log.
	if payload, ok := s.cache.Get(ctx, req.RestaurantID, req.Message); ok {
		s.observe(ctx, start, "cache_hit")
		writeRawJSON(w, http.StatusOK, payload)
		return
	}

	intentResult := s.classifyMessage(ctx, req.Message, req.Context)

	result, err := ag.Invoke(ctx, req.Message)
	if err != nil {
		s.failProcess(w, r, start, err)
		return
	}

	resp := ProcessResponse{
		Input:         req.Message,
		Output:        result.Output,
		Intent:        string(intentResult.PrimaryIntent),
		Confidence:    intentResult.Confidence,
		RequiresHuman: intentResult.RequiresHuman,
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.failProcess(w, r, start, errors.NewInternalError(err))
		return
	}

	s.cache.Set(ctx, req.RestaurantID, req.Message, payload)

	customerID := req.CustomerID
	if customerID == "" {
		// Anonymous traffic gets a per-request thread, so strangers never
		// share a conversation row.
		customerID = "anon-" + RequestIDFrom(ctx)
	}
	turns := []models.ConversationTurn{
		models.NewTurn(models.RoleUser, req.Message),
		models.NewTurn(models.RoleAssistant, result.Output),
	}
	if err := s.conversations.Append(ctx, req.RestaurantID, customerID, req.Channel, turns); err != nil {
		s.failProcess(w, r, start, err)
		return
	}

	metrics.MessagesProcessed.WithLabelValues(string(intentResult.PrimaryIntent)).Inc()
	s.observe(ctx, start, "success")
	writeRawJSON(w, http.StatusOK, payload)
}

// classifyMessage never fails the request: when classification breaks the
// message is treated as a zero-confidence general inquiry so the customer
// still gets an answer.
func (s *Server) classifyMessage(ctx context.Context, message string, msgContext map[string]interface{}) *models.IntentResult {
	result, err := s.classifier.Classify(ctx, message, msgContext)
	if err != nil {
		s.logger.Warn("intent classification failed", map[string]interface{}{"error": err.Error()})
		return &models.IntentResult{
			PrimaryIntent: models.IntentGeneralInquiry,
			Entities:      map[string]interface{}{},
		}
	}
	return result
}

func (s *Server) failProcess(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	s.observe(r.Context(), start, "error")
	s.failRequest(w, r, err)
}
