// internal/assistant/intent/classifier.go

// Package intent classifies customer messages into restaurant intents with
// a single structured-output model call.
package intent

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

// classificationSchema is enforced by the provider's structured output mode,
// so replies decode straight into models.IntentResult.
var classificationSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"primary_intent": {
			Type:        "string",
			Description: "The main intent of the message",
			Enum:        intentNames(),
		},
		"entities": {
			Type:        "object",
			Description: "Extracted entities from the message",
		},
		"confidence": {
			Type:        "number",
			Description: "Confidence score between 0 and 1",
			Minimum:     floatPtr(0),
			Maximum:     floatPtr(1),
		},
		"requires_human": {
			Type:        "boolean",
			Description: "Whether this requires human intervention",
		},
	},
	Required: []string{"primary_intent", "confidence"},
}

func intentNames() []string {
	names := make([]string, 0, len(models.AllIntents))
	for _, intent := range models.AllIntents {
		names = append(names, string(intent))
	}
	return names
}

func floatPtr(f float64) *float64 { return &f }

// Classifier wraps the model call that labels customer messages.
type Classifier struct {
	llm    llm.Client
	logger logger.Logger
}

func NewClassifier(client llm.Client, log logger.Logger) *Classifier {
	return &Classifier{
		llm:    client,
		logger: log.WithFields(map[string]interface{}{"component": "intent-classifier"}),
	}
}

// Classify labels one message. The context map is serialized into the
// prompt so upstream channels can pass session hints.
func (c *Classifier) Classify(ctx context.Context, message string, context map[string]interface{}) (*models.IntentResult, error) {
	resp, err := c.llm.Complete(ctx, &llm.Request{
		Messages:       []llm.Message{llm.UserMessage(buildPrompt(message, context))},
		Temperature:    0,
		ResponseName:   "intent_classification",
		ResponseSchema: &classificationSchema,
	})
	if err != nil {
		return nil, err
	}

	var result models.IntentResult
	if err := json.Unmarshal([]byte(resp.Text), &result); err != nil {
		return nil, errors.NewIntentParsingFailedError(fmt.Errorf("decode classification: %w", err))
	}
	if !result.PrimaryIntent.Valid() {
		return nil, errors.NewIntentParsingFailedError(fmt.Errorf("unknown intent %q", result.PrimaryIntent))
	}
	if result.Entities == nil {
		result.Entities = map[string]interface{}{}
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	} else if result.Confidence > 1 {
		result.Confidence = 1
	}

	c.logger.Info("intent classified", map[string]interface{}{
		"intent":        result.PrimaryIntent,
		"confidence":    result.Confidence,
		"entityCount":   len(result.Entities),
		"requiresHuman": result.RequiresHuman,
	})
	return &result, nil
}

// BatchItem pairs one message with its classification outcome.
type BatchItem struct {
	Message string
	Result  *models.IntentResult
	Err     error
}

// BatchClassify labels each message in order. Failures are collected per
// message rather than aborting the batch.
func (c *Classifier) BatchClassify(ctx context.Context, messages []string) []BatchItem {
	items := make([]BatchItem, len(messages))
	for i, message := range messages {
		result, err := c.Classify(ctx, message, nil)
		items[i] = BatchItem{Message: message, Result: result, Err: err}
	}
	return items
}

func buildPrompt(message string, context map[string]interface{}) string {
	if context == nil {
		context = map[string]interface{}{}
	}
	contextJSON, _ := json.Marshal(context)

	return fmt.Sprintf(`Classify the following restaurant customer message.

Message: %s
Context: %s

Consider:
1. What is the customer trying to accomplish?
2. What specific information do they need?
3. Is this urgent or time-sensitive?
4. Does this require human intervention?

Extract relevant entities such as:
- Date and time for reservations
- Party size
- Menu items mentioned
- Contact information
- Special requests`, message, contextJSON)
}
