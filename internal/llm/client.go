// Package llm provides a provider-agnostic chat completion client used by
// the agent loop, the intent classifier, and the response generator.
// Implementations translate the normalized request into provider SDK calls.
package llm

import (
	"context"

	"restaurant-ai-service/internal/common/validation"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Stop reasons normalized across providers.
const (
	StopReasonStop          = "stop"
	StopReasonToolCalls     = "tool_calls"
	StopReasonMaxTokens     = "max_tokens"
	StopReasonContentFilter = "content_filter"
)

// Message is one turn of model input. Assistant turns may carry tool
// calls; tool turns carry the result of a prior call.
type Message struct {
	Role      string
	Content   string
	ToolCalls []ToolCall

	// ToolCallID and ToolName correlate a tool turn with the call that
	// produced it.
	ToolCallID string
	ToolName   string
}

// ToolCall is a tool invocation requested by the model. Arguments is the
// raw JSON argument object.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolDefinition describes a callable tool advertised to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  validation.JSONSchema
}

// Request carries a single completion call. Temperature is always
// forwarded; MaxTokens of zero leaves the provider default in place.
// Setting ResponseSchema requests structured JSON output.
type Request struct {
	System      string
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int

	ResponseName   string
	ResponseSchema *validation.JSONSchema
}

// Response is the normalized completion result.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
	Usage      TokenUsage
}

type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Client is implemented by each provider. Implementations are safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
	Provider() string
	Model() string
}

// UserMessage builds a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a plain assistant turn.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// AssistantToolCalls builds an assistant turn that requested tools.
func AssistantToolCalls(calls []ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: calls}
}

// ToolResult builds a tool turn answering the given call.
func ToolResult(call ToolCall, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: call.ID, ToolName: call.Name}
}
