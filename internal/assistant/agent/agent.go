// internal/assistant/agent/agent.go

// Package agent drives the bounded tool-calling conversation loop for one
// restaurant: it lets the model decide between answering directly and
// invoking a domain tool, feeds tool results back, and stops after a fixed
// number of iterations.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"restaurant-ai-service/internal/assistant/tools"
	"restaurant-ai-service/internal/common/config"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/models"
)

// Agent answers customer messages for a single restaurant.
type Agent struct {
	mu           sync.Mutex
	llm          llm.Client
	registry     *tools.Registry
	restaurant   *models.Restaurant
	history      *History
	cfg          config.AgentConfig
	logger       logger.Logger
	systemPrompt string
}

// Result is the outcome of one agent invocation.
type Result struct {
	Output     string
	Iterations int
	ToolsUsed  []string
}

func New(client llm.Client, restaurant *models.Restaurant, registry *tools.Registry, cfg config.AgentConfig, log logger.Logger) *Agent {
	return &Agent{
		llm:        client,
		registry:   registry,
		restaurant: restaurant,
		history:    NewHistory(cfg.HistoryWindow),
		cfg:        cfg,
		logger: log.WithFields(map[string]interface{}{
			"component":    "agent",
			"restaurantId": restaurant.ID,
		}),
		systemPrompt: buildSystemPrompt(restaurant),
	}
}

func buildSystemPrompt(r *models.Restaurant) string {
	details := fmt.Sprintf(`- Cuisine: %s
- Hours: %s
- Address: %s
- Phone: %s`, r.Cuisine, r.HoursSummary(), r.Address, r.Phone)
	if len(r.Specials) > 0 {
		details += fmt.Sprintf("\n- Specials: %s", strings.Join(r.Specials, ", "))
	}

	return fmt.Sprintf(`You are an AI assistant for %s.

Restaurant Details:
%s

Your responsibilities:
1. Handle reservations professionally and efficiently
2. Answer questions about menu, hours, and location
3. Process takeout orders accurately
4. Provide wait time estimates
5. Be friendly, helpful, and represent the restaurant well

Special Instructions:
- Always confirm reservation details before booking
- Mention any daily specials when relevant
- For large parties (8+), note that a deposit may be required
- If fully booked, always offer alternative times`,
		r.Name, details)
}

// Invoke runs the tool-calling loop for one customer message. Invocations
// on the same agent are serialized so the conversation window stays ordered.
func (a *Agent) Invoke(ctx context.Context, input string) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	scratch := append(a.history.Turns(), llm.UserMessage(input))
	result := &Result{}

	var finalText string
	var lastText, lastToolOutput string
	answered := false

	for iteration := 1; iteration <= a.cfg.MaxIterations; iteration++ {
		result.Iterations = iteration

		resp, err := a.llm.Complete(ctx, &llm.Request{
			System:      a.systemPrompt,
			Messages:    scratch,
			Tools:       a.registry.Definitions(),
			Temperature: a.cfg.Temperature,
			MaxTokens:   a.cfg.MaxTokens,
		})
		if err != nil {
			return nil, err
		}

		if resp.Text != "" {
			lastText = resp.Text
		}

		if len(resp.ToolCalls) == 0 {
			finalText = resp.Text
			answered = true
			break
		}

		scratch = append(scratch, llm.AssistantToolCalls(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			output, execErr := a.registry.Execute(ctx, call)
			if execErr != nil {
				// Feed the failure back so the model can adjust course.
				output = execErr.Error()
				a.logger.Warn("tool call failed", map[string]interface{}{
					"tool":      call.Name,
					"iteration": iteration,
					"error":     execErr,
				})
			}
			result.ToolsUsed = append(result.ToolsUsed, call.Name)
			lastToolOutput = output
			scratch = append(scratch, llm.ToolResult(call, output))
		}
	}

	if !answered {
		// Iteration cap reached: one last call without tools to force a
		// best-effort answer from whatever the loop gathered.
		resp, err := a.llm.Complete(ctx, &llm.Request{
			System:      a.systemPrompt,
			Messages:    scratch,
			Temperature: a.cfg.Temperature,
			MaxTokens:   a.cfg.MaxTokens,
		})
		switch {
		case err == nil:
			finalText = resp.Text
		case lastText != "":
			// The forced call failed; hand back the last thing the model said.
			finalText = lastText
		case lastToolOutput != "":
			finalText = lastToolOutput
		default:
			return nil, err
		}
		a.logger.Warn("iteration cap reached", map[string]interface{}{
			"iterations":  result.Iterations,
			"toolsUsed":   result.ToolsUsed,
			"forcedError": err,
		})
	}

	a.history.Append(input, finalText)
	metrics.AgentIterations.Observe(float64(result.Iterations))

	result.Output = finalText
	return result, nil
}

// Restaurant returns the profile this agent serves.
func (a *Agent) Restaurant() *models.Restaurant {
	return a.restaurant
}
