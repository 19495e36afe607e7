// internal/server/analyze.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"restaurant-ai-service/internal/common/errors"
)

const (
	analysisTypeSentiment = "sentiment"
	analysisTypeIntent    = "intent"
)

// AnalyzeRequest asks for a standalone analysis of a piece of text,
// outside any conversation.
type AnalyzeRequest struct {
	Text     string                 `json:"text"`
	Type     string                 `json:"type"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (s *Server) handleAnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failRequest(w, r, errors.NewInvalidInputError(fmt.Sprintf("decode request: %v", err)))
		return
	}
	if req.Text == "" {
		s.failRequest(w, r, errors.NewInvalidInputError("text is required"))
		return
	}
	if req.Type == "" {
		req.Type = analysisTypeSentiment
	}

	switch req.Type {
	case analysisTypeSentiment:
		result, err := s.analyzer.Analyze(r.Context(), req.Text)
		if err != nil {
			s.failRequest(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case analysisTypeIntent:
		result, err := s.classifier.Classify(r.Context(), req.Text, req.Metadata)
		if err != nil {
			s.failRequest(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		s.failRequest(w, r, errors.NewInvalidInputError(fmt.Sprintf("unknown analysis type %q", req.Type)))
	}
}
