// internal/assistant/sentiment/analyzer.go

// Package sentiment scores customer feedback with a single
// structured-output model call.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/validation"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/models"
)

var analysisSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"label": {
			Type:        "string",
			Description: "Overall sentiment of the text",
			Enum:        labelNames(),
		},
		"score": {
			Type:        "number",
			Description: "Sentiment score from -1 (strongly negative) to 1 (strongly positive)",
			Minimum:     floatPtr(-1),
			Maximum:     floatPtr(1),
		},
		"confidence": {
			Type:        "number",
			Description: "Confidence score between 0 and 1",
			Minimum:     floatPtr(0),
			Maximum:     floatPtr(1),
		},
	},
	Required: []string{"label", "score", "confidence"},
}

func labelNames() []string {
	names := make([]string, 0, len(models.AllSentimentLabels))
	for _, label := range models.AllSentimentLabels {
		names = append(names, string(label))
	}
	return names
}

func floatPtr(f float64) *float64 { return &f }

// Analyzer wraps the model call that scores free-form customer text.
type Analyzer struct {
	llm    llm.Client
	logger logger.Logger
}

func NewAnalyzer(client llm.Client, log logger.Logger) *Analyzer {
	return &Analyzer{
		llm:    client,
		logger: log.WithFields(map[string]interface{}{"component": "sentiment-analyzer"}),
	}
}

// Analyze scores one piece of text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.SentimentResult, error) {
	resp, err := a.llm.Complete(ctx, &llm.Request{
		Messages:       []llm.Message{llm.UserMessage(buildPrompt(text))},
		Temperature:    0,
		ResponseName:   "sentiment_analysis",
		ResponseSchema: &analysisSchema,
	})
	if err != nil {
		return nil, err
	}

	var result models.SentimentResult
	if err := json.Unmarshal([]byte(resp.Text), &result); err != nil {
		return nil, errors.NewSentimentParsingFailedError(fmt.Errorf("decode analysis: %w", err))
	}
	if !result.Label.Valid() {
		return nil, errors.NewSentimentParsingFailedError(fmt.Errorf("unknown label %q", result.Label))
	}
	if result.Score < -1 {
		result.Score = -1
	} else if result.Score > 1 {
		result.Score = 1
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	} else if result.Confidence > 1 {
		result.Confidence = 1
	}

	a.logger.Info("sentiment analyzed", map[string]interface{}{
		"label":      result.Label,
		"score":      result.Score,
		"confidence": result.Confidence,
	})
	return &result, nil
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment of the following restaurant customer text.

Text: %s

Consider:
1. Is the customer satisfied or dissatisfied?
2. How strong is the emotion expressed?
3. Does the text mix praise and complaints?

Rate the overall sentiment and your confidence in the rating.`, text)
}
