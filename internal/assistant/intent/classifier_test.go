// internal/assistant/intent/classifier_test.go
package intent

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeLLM struct {
	mu        sync.Mutex
	responses []*llm.Response
	errs      []error
	requests  []*llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.requests)
	f.requests = append(f.requests, req)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	return f.responses[idx], nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-model" }

func classificationResponse(body string) *llm.Response {
	return &llm.Response{Text: body, StopReason: llm.StopReasonStop}
}

// ==========================
// Classification Tests
// ==========================

func TestClassifier_Classify(t *testing.T) {
	fake := &fakeLLM{responses: []*llm.Response{classificationResponse(
		`{"primary_intent":"reservation","entities":{"party_size":4,"date":"saturday"},"confidence":0.92,"requires_human":false}`,
	)}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	result, err := classifier.Classify(context.Background(), "Table for 4 on Saturday?", map[string]interface{}{
		"channel": "web",
	})

	require.NoError(t, err)
	assert.Equal(t, models.IntentReservation, result.PrimaryIntent)
	assert.Equal(t, 0.92, result.Confidence)
	assert.False(t, result.RequiresHuman)
	assert.Equal(t, float64(4), result.Entities["party_size"])

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, float64(0), req.Temperature)
	assert.Equal(t, "intent_classification", req.ResponseName)
	require.NotNil(t, req.ResponseSchema)
	assert.Contains(t, req.ResponseSchema.Properties["primary_intent"].Enum, "menu_inquiry")

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Message: Table for 4 on Saturday?")
	assert.Contains(t, prompt, `Context: {"channel":"web"}`)
	assert.Contains(t, prompt, "1. What is the customer trying to accomplish?")
	assert.Contains(t, prompt, "- Party size")
}

func TestClassifier_Classify_NilContext(t *testing.T) {
	fake := &fakeLLM{responses: []*llm.Response{classificationResponse(
		`{"primary_intent":"general_inquiry","confidence":0.5}`,
	)}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	result, err := classifier.Classify(context.Background(), "Hello", nil)

	require.NoError(t, err)
	assert.Equal(t, models.IntentGeneralInquiry, result.PrimaryIntent)
	assert.NotNil(t, result.Entities)
	assert.Empty(t, result.Entities)
	assert.Contains(t, fake.requests[0].Messages[0].Content, "Context: {}")
}

func TestClassifier_Classify_ConfidenceClamped(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected float64
	}{
		{"above one", `{"primary_intent":"feedback","confidence":1.7}`, 1},
		{"below zero", `{"primary_intent":"feedback","confidence":-0.2}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{responses: []*llm.Response{classificationResponse(tt.body)}}
			classifier := NewClassifier(fake, logger.NewTestLogger(t))

			result, err := classifier.Classify(context.Background(), "Great dinner!", nil)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Confidence)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestClassifier_Classify_UnknownIntent(t *testing.T) {
	fake := &fakeLLM{responses: []*llm.Response{classificationResponse(
		`{"primary_intent":"pizza_party","confidence":0.8}`,
	)}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	result, err := classifier.Classify(context.Background(), "???", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTENT_PARSING_FAILED")
	assert.Nil(t, result)
}

func TestClassifier_Classify_MalformedReply(t *testing.T) {
	fake := &fakeLLM{responses: []*llm.Response{classificationResponse("the intent is reservation")}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	result, err := classifier.Classify(context.Background(), "Table for 2", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTENT_PARSING_FAILED")
	assert.Nil(t, result)
}

func TestClassifier_Classify_LLMError(t *testing.T) {
	fake := &fakeLLM{errs: []error{errors.NewLLMTimeoutError("gemini")}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	_, err := classifier.Classify(context.Background(), "Table for 2", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_TIMEOUT")
}

// ==========================
// Batch Classification Tests
// ==========================

func TestClassifier_BatchClassify(t *testing.T) {
	fake := &fakeLLM{responses: []*llm.Response{
		classificationResponse(`{"primary_intent":"reservation","confidence":0.9}`),
		classificationResponse(`not json`),
		classificationResponse(`{"primary_intent":"complaint","confidence":0.8,"requires_human":true}`),
	}}
	classifier := NewClassifier(fake, logger.NewTestLogger(t))

	items := classifier.BatchClassify(context.Background(), []string{
		"Table for 2 tonight",
		"???",
		"My order was cold",
	})

	require.Len(t, items, 3)

	assert.NoError(t, items[0].Err)
	assert.Equal(t, models.IntentReservation, items[0].Result.PrimaryIntent)

	assert.Error(t, items[1].Err)
	assert.Nil(t, items[1].Result)

	assert.NoError(t, items[2].Err)
	assert.Equal(t, models.IntentComplaint, items[2].Result.PrimaryIntent)
	assert.True(t, items[2].Result.RequiresHuman)
}
