// internal/assistant/respond/generator_test.go
package respond

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/llm"
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
	if idx >= len(f.responses) {
		return &llm.Response{Text: "generated text", StopReason: llm.StopReasonStop}, nil
	}
	return f.responses[idx], nil
}

func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-model" }

func newTestGenerator(t *testing.T) (*Generator, *fakeLLM) {
	fake := &fakeLLM{}
	return NewGenerator(fake, "Luigi's Trattoria", logger.NewTestLogger(t)), fake
}

// ==========================
// Template Tests
// ==========================

func TestTemplateSet_Names(t *testing.T) {
	set := NewTemplateSet("Luigi's Trattoria")

	assert.Equal(t, []string{
		"menu_response",
		"order_confirmation",
		"reservation_confirm",
		"reservation_unavailable",
		"review_response_negative",
		"review_response_positive",
	}, set.Names())
}

func TestTemplateSet_Get_Unknown(t *testing.T) {
	set := NewTemplateSet("Luigi's Trattoria")

	_, err := set.Get("breakup_letter")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEMPLATE_NOT_FOUND")
}

func TestTemplate_Fill(t *testing.T) {
	set := NewTemplateSet("Luigi's Trattoria")
	tpl, err := set.Get("reservation_confirm")
	require.NoError(t, err)

	filled, err := tpl.Fill(map[string]interface{}{
		"name": "Dana Reyes",
		"size": float64(4),
		"date": "Saturday",
		"time": "7:30 PM",
	})

	require.NoError(t, err)
	assert.Equal(t, "Confirm reservation for Dana Reyes, party of 4 on Saturday at 7:30 PM", filled.Human)
	assert.Equal(t, tpl.System, filled.System)
}

func TestTemplate_Fill_MissingVariable(t *testing.T) {
	set := NewTemplateSet("Luigi's Trattoria")
	tpl, err := set.Get("reservation_confirm")
	require.NoError(t, err)

	_, err = tpl.Fill(map[string]interface{}{"name": "Dana Reyes"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing template variables")
	assert.Contains(t, err.Error(), "size")
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"string", "hello", "hello"},
		{"whole float", float64(4), "4"},
		{"fractional float", 14.5, "14.5"},
		{"int", 3, "3"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"map", map[string]interface{}{"items": []interface{}{"pizza"}}, `{"items":["pizza"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stringify(tt.value))
		})
	}
}

// ==========================
// Generation Tests
// ==========================

func TestGenerator_Generate(t *testing.T) {
	gen, fake := newTestGenerator(t)

	out, err := gen.Generate(context.Background(), "reservation_confirm", map[string]interface{}{
		"name": "Dana Reyes",
		"size": 4,
		"date": "Saturday",
		"time": "7:30 PM",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "generated text", out)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "You are confirming a reservation. Be professional and include all details.", req.System)
	assert.Equal(t, 0.7, req.Temperature)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "Confirm reservation for Dana Reyes, party of 4 on Saturday at 7:30 PM", req.Messages[0].Content)
}

func TestGenerator_Generate_ToneModifier(t *testing.T) {
	tests := []struct {
		tone           string
		expectedSuffix string
	}{
		{ToneCasual, "Be friendly and casual"},
		{ToneFormal, "Be formal and professional"},
	}

	for _, tt := range tests {
		t.Run(tt.tone, func(t *testing.T) {
			gen, fake := newTestGenerator(t)

			_, err := gen.Generate(context.Background(), "menu_response", map[string]interface{}{
				"query": "desserts",
				"items": "Tiramisu: $9",
			}, tt.tone)

			require.NoError(t, err)
			assert.Contains(t, fake.requests[0].System, "Provide menu information enthusiastically.")
			assert.Contains(t, fake.requests[0].System, tt.expectedSuffix)
		})
	}
}

func TestGenerator_Generate_UnknownTemplateFallsBack(t *testing.T) {
	gen, fake := newTestGenerator(t)

	out, err := gen.Generate(context.Background(), "unknown_scenario", map[string]interface{}{
		"query": "Do you cater weddings?",
	}, "")

	require.NoError(t, err)
	assert.Equal(t, "generated text", out)

	req := fake.requests[0]
	assert.Equal(t, "You are an AI assistant for Luigi's Trattoria. Help the customer with their inquiry.", req.System)
	assert.Equal(t, "Do you cater weddings?", req.Messages[0].Content)
}

func TestGenerator_Generate_MissingVariables(t *testing.T) {
	gen, fake := newTestGenerator(t)

	out, err := gen.Generate(context.Background(), "order_confirmation", map[string]interface{}{}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_INPUT")
	assert.Empty(t, out)
	assert.Empty(t, fake.requests, "no model call for an unfillable template")
}

// ==========================
// Personalization Tests
// ==========================

func TestGenerator_Personalize(t *testing.T) {
	gen, fake := newTestGenerator(t)

	out, err := gen.Personalize(context.Background(), "Your table is booked for 7 PM.", &Customer{
		Name:        "Dana Reyes",
		VisitCount:  12,
		Preferences: "window seat, oat milk",
	})

	require.NoError(t, err)
	assert.Equal(t, "generated text", out)

	req := fake.requests[0]
	assert.Equal(t, "Personalize this restaurant response based on customer history.", req.System)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Base response: Your table is booked for 7 PM.")
	assert.Contains(t, prompt, "Customer name: Dana Reyes")
	assert.Contains(t, prompt, "Visit history: 12")
	assert.Contains(t, prompt, "Preferences: window seat, oat milk")
	assert.Contains(t, prompt, "Add personal touches without changing the core message.")
}

func TestGenerator_Personalize_NilCustomer(t *testing.T) {
	gen, fake := newTestGenerator(t)

	out, err := gen.Personalize(context.Background(), "Your table is booked.", nil)

	require.NoError(t, err)
	assert.Equal(t, "Your table is booked.", out)
	assert.Empty(t, fake.requests, "no model call without customer data")
}

func TestGenerator_Personalize_Defaults(t *testing.T) {
	gen, fake := newTestGenerator(t)

	_, err := gen.Personalize(context.Background(), "Thanks for your order.", &Customer{})

	require.NoError(t, err)
	prompt := fake.requests[0].Messages[0].Content
	assert.Contains(t, prompt, "Customer name: Guest")
	assert.Contains(t, prompt, "Visit history: 0")
	assert.Contains(t, prompt, "Preferences: none noted")
}
