// internal/assistant/tools/tool.go

// Package tools implements the actions the conversation agent can take on
// behalf of a restaurant, plus the registry that validates and dispatches
// model-requested calls.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/common/validation"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/models"
)

// Tool is a single callable action exposed to the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() validation.JSONSchema
	Call(ctx context.Context, args map[string]interface{}) (string, error)
}

// Registry holds one restaurant's tool set and dispatches model tool calls.
type Registry struct {
	logger logger.Logger
	tools  map[string]Tool
	order  []string
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		logger: log.WithFields(map[string]interface{}{"component": "tool-registry"}),
		tools:  make(map[string]Tool),
	}
}

// NewDefaultRegistry builds the standard six-tool set for a restaurant.
func NewDefaultRegistry(restaurant *models.Restaurant, log logger.Logger) *Registry {
	registry := NewRegistry(log)
	defaults := []Tool{
		NewAvailabilityTool(),
		NewMenuTool(restaurant),
		NewReservationTool(),
		NewHoursTool(restaurant),
		NewOrderTool(),
		NewWaitTimeTool(),
	}
	for _, tool := range defaults {
		if err := registry.Register(tool); err != nil {
			log.Error("tool registration failed", map[string]interface{}{
				"tool":  tool.Name(),
				"error": err,
			})
		}
	}
	return registry
}

func (r *Registry) Register(tool Tool) error {
	if err := validation.ValidateToolNaming(tool.Name()); err != nil {
		return fmt.Errorf("register %s: %w", tool.Name(), err)
	}
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	r.order = append(r.order, tool.Name())
	return nil
}

// Definitions lists the registered tools in registration order for the
// model request.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, llm.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}

// Execute validates the call arguments against the tool's declared schema
// and runs the tool.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) (string, error) {
	tool, ok := r.tools[call.Name]
	if !ok {
		metrics.ToolInvocations.WithLabelValues(call.Name, "unknown").Inc()
		return "", errors.NewUnknownToolError(call.Name)
	}

	args := map[string]interface{}{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			metrics.ToolInvocations.WithLabelValues(call.Name, "invalid").Inc()
			return "", errors.NewToolValidationFailedError(call.Name, fmt.Sprintf("arguments are not valid JSON: %v", err))
		}
	}

	if result := validation.ValidateInput(args, tool.Parameters()); !result.Valid {
		metrics.ToolInvocations.WithLabelValues(call.Name, "invalid").Inc()
		return "", errors.NewToolValidationFailedError(call.Name, strings.Join(result.GetErrorMessages(), "; "))
	}

	output, err := tool.Call(ctx, args)
	if err != nil {
		metrics.ToolInvocations.WithLabelValues(call.Name, "error").Inc()
		return "", errors.NewToolExecutionFailedError(call.Name, err)
	}

	metrics.ToolInvocations.WithLabelValues(call.Name, "success").Inc()
	r.logger.Debug("tool executed", map[string]interface{}{
		"tool":   call.Name,
		"callId": call.ID,
	})
	return output, nil
}

// decodeArgs maps validated arguments onto a tool's input struct.
func decodeArgs(args map[string]interface{}, v interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func floatPtr(f float64) *float64 { return &f }
