// internal/llm/openai_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ai-service/internal/common/validation"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestOpenAIClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient(OpenAIOptions{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4-turbo-preview",
	})
}

func createChatCompletionResponse(content, finishReason string, toolCalls []map[string]interface{}) string {
	message := map[string]interface{}{
		"role":    "assistant",
		"content": content,
	}
	if len(toolCalls) > 0 {
		message["tool_calls"] = toolCalls
	}
	response := map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4-turbo-preview",
		"choices": []map[string]interface{}{
			{"index": 0, "finish_reason": finishReason, "message": message},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     42,
			"completion_tokens": 7,
			"total_tokens":      49,
		},
	}
	data, _ := json.Marshal(response)
	return string(data)
}

func availabilityToolDefinition() ToolDefinition {
	return ToolDefinition{
		Name:        "check_availability",
		Description: "Check table availability for a given date, time, and party size",
		Parameters: validation.JSONSchema{
			Type: "object",
			Properties: map[string]validation.Property{
				"date_time":  {Type: "string", Description: "Requested time in ISO 8601 format"},
				"party_size": {Type: "integer", Description: "Number of guests"},
			},
			Required: []string{"date_time", "party_size"},
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestOpenAIClient_Complete_TextAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "gpt-4-turbo-preview", reqBody["model"])
		assert.Equal(t, 0.7, reqBody["temperature"])
		assert.Equal(t, float64(500), reqBody["max_completion_tokens"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		first := messages[0].(map[string]interface{})
		assert.Equal(t, "system", first["role"])
		assert.Equal(t, "You are an AI assistant for Luigi's.", first["content"])
		second := messages[1].(map[string]interface{})
		assert.Equal(t, "user", second["role"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createChatCompletionResponse("We open at 11 AM.", "stop", nil)))
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)
	resp, err := client.Complete(context.Background(), &Request{
		System:      "You are an AI assistant for Luigi's.",
		Messages:    []Message{UserMessage("When do you open?")},
		Temperature: 0.7,
		MaxTokens:   500,
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "We open at 11 AM.", resp.Text)
	assert.Equal(t, StopReasonStop, resp.StopReason)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 42, resp.Usage.InputTokens)
	assert.Equal(t, 7, resp.Usage.OutputTokens)
	assert.Equal(t, 49, resp.Usage.TotalTokens)
}

func TestOpenAIClient_Complete_ToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		tools := reqBody["tools"].([]interface{})
		assert.Len(t, tools, 1)
		fn := tools[0].(map[string]interface{})["function"].(map[string]interface{})
		assert.Equal(t, "check_availability", fn["name"])
		params := fn["parameters"].(map[string]interface{})
		assert.Equal(t, "object", params["type"])
		assert.Contains(t, params["properties"], "party_size")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createChatCompletionResponse("", "tool_calls", []map[string]interface{}{
			{
				"id":   "call_abc123",
				"type": "function",
				"function": map[string]interface{}{
					"name":      "check_availability",
					"arguments": `{"date_time":"2025-06-01T19:00:00","party_size":4}`,
				},
			},
		})))
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)
	resp, err := client.Complete(context.Background(), &Request{
		Messages:    []Message{UserMessage("Table for 4 tonight at 7?")},
		Tools:       []ToolDefinition{availabilityToolDefinition()},
		Temperature: 0.7,
	})

	assert.NoError(t, err)
	assert.Equal(t, StopReasonToolCalls, resp.StopReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_abc123", resp.ToolCalls[0].ID)
	assert.Equal(t, "check_availability", resp.ToolCalls[0].Name)
	assert.Contains(t, resp.ToolCalls[0].Arguments, "party_size")
}

func TestOpenAIClient_Complete_ToolExchangeSerialization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 3)

		assistant := messages[1].(map[string]interface{})
		assert.Equal(t, "assistant", assistant["role"])
		calls := assistant["tool_calls"].([]interface{})
		call := calls[0].(map[string]interface{})
		assert.Equal(t, "call_abc123", call["id"])
		assert.Equal(t, "check_availability", call["function"].(map[string]interface{})["name"])

		toolMsg := messages[2].(map[string]interface{})
		assert.Equal(t, "tool", toolMsg["role"])
		assert.Equal(t, "call_abc123", toolMsg["tool_call_id"])
		assert.Contains(t, toolMsg["content"], "Available times")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createChatCompletionResponse("We have 7:00 PM open.", "stop", nil)))
	}))
	defer server.Close()

	call := ToolCall{
		ID:        "call_abc123",
		Name:      "check_availability",
		Arguments: `{"date_time":"2025-06-01T19:00:00","party_size":4}`,
	}

	client := newTestOpenAIClient(server.URL)
	resp, err := client.Complete(context.Background(), &Request{
		Messages: []Message{
			UserMessage("Table for 4 tonight at 7?"),
			AssistantToolCalls([]ToolCall{call}),
			ToolResult(call, "Available times for party of 4: 07:00 PM"),
		},
		Temperature: 0.7,
	})

	assert.NoError(t, err)
	assert.Equal(t, "We have 7:00 PM open.", resp.Text)
}

func TestOpenAIClient_Complete_StructuredOutput(t *testing.T) {
	schema := &validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"primary_intent": {Type: "string"},
			"confidence":     {Type: "number"},
		},
		Required: []string{"primary_intent", "confidence"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		_, hasTools := reqBody["tools"]
		assert.False(t, hasTools, "tools must not accompany json_schema output")

		responseFormat := reqBody["response_format"].(map[string]interface{})
		assert.Equal(t, "json_schema", responseFormat["type"])
		jsonSchema := responseFormat["json_schema"].(map[string]interface{})
		assert.Equal(t, "intent_classification", jsonSchema["name"])
		assert.Equal(t, "object", jsonSchema["schema"].(map[string]interface{})["type"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createChatCompletionResponse(`{"primary_intent":"reservation","confidence":0.92}`, "stop", nil)))
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)
	resp, err := client.Complete(context.Background(), &Request{
		Messages:       []Message{UserMessage("Book a table for two")},
		ResponseName:   "intent_classification",
		ResponseSchema: schema,
	})

	assert.NoError(t, err)
	assert.Contains(t, resp.Text, "reservation")
}

// ==========================
// Error Handling Tests
// ==========================

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"Bad Request", http.StatusBadRequest},
		{"Unauthorized", http.StatusUnauthorized},
		{"Not Found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := newTestOpenAIClient(server.URL)
			resp, err := client.Complete(context.Background(), &Request{
				Messages: []Message{UserMessage("Hello")},
			})

			assert.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "LLM_UNAVAILABLE"))
			assert.Nil(t, resp)
		})
	}
}

func TestOpenAIClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond) // slow API
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp, err := client.Complete(ctx, &Request{
		Messages: []Message{UserMessage("Hello")},
	})
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "LLM_TIMEOUT"))
	assert.Nil(t, resp)
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`))
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)
	resp, err := client.Complete(context.Background(), &Request{
		Messages: []Message{UserMessage("Hello")},
	})

	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "LLM_BAD_RESPONSE"))
	assert.Nil(t, resp)
}

// ==========================
// Unit Tests
// ==========================

func TestOpenAIClient_StopReasonMapping(t *testing.T) {
	tests := []struct {
		name         string
		finishReason string
		expected     string
	}{
		{"natural stop", "stop", StopReasonStop},
		{"tool calls", "tool_calls", StopReasonToolCalls},
		{"legacy function call", "function_call", StopReasonToolCalls},
		{"token cap", "length", StopReasonMaxTokens},
		{"filtered", "content_filter", StopReasonContentFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(createChatCompletionResponse("partial", tt.finishReason, nil)))
			}))
			defer server.Close()

			client := newTestOpenAIClient(server.URL)
			resp, err := client.Complete(context.Background(), &Request{
				Messages: []Message{UserMessage("Hello")},
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StopReason)
		})
	}
}

func TestFunctionParameters_RoundTrip(t *testing.T) {
	params := functionParameters(availabilityToolDefinition().Parameters)

	assert.Equal(t, "object", params["type"])
	props := params["properties"].(map[string]interface{})
	assert.Contains(t, props, "date_time")
	assert.Contains(t, props, "party_size")
	assert.Equal(t, []interface{}{"date_time", "party_size"}, params["required"])
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkOpenAIClient_Complete(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(createChatCompletionResponse("ok", "stop", nil)))
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL)
	req := &Request{
		Messages:    []Message{UserMessage("Hello")},
		Temperature: 0.7,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Complete(context.Background(), req)
	}
}
