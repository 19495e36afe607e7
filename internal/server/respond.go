// internal/server/respond.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"restaurant-ai-service/internal/assistant/respond"
	"restaurant-ai-service/internal/common/errors"
)

// GenerateRequest renders one response template. Personalization, when
// present, rewrites the rendered text with the customer's history.
type GenerateRequest struct {
	Template        string                 `json:"template"`
	Variables       map[string]interface{} `json:"variables"`
	Tone            string                 `json:"tone"`
	Personalization *respond.Customer      `json:"personalization"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleGenerateResponse(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failRequest(w, r, errors.NewInvalidInputError(fmt.Sprintf("decode request: %v", err)))
		return
	}
	if req.Template == "" {
		s.failRequest(w, r, errors.NewInvalidInputError("template is required"))
		return
	}

	text, err := s.generator.Generate(r.Context(), req.Template, req.Variables, req.Tone)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	if req.Personalization != nil {
		text, err = s.generator.Personalize(r.Context(), text, req.Personalization)
		if err != nil {
			s.failRequest(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Response: text})
}
