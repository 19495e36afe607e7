// internal/llm/gemini.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/common/validation"
)

// GeminiClient implements Client over the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiClient, error) {
	cc := &genai.ClientConfig{APIKey: apiKey}
	if httpClient != nil {
		cc.HTTPClient = httpClient
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) Model() string { return c.model }

func (c *GeminiClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	cfg, contents, err := buildGeminiRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	metrics.LLMRequestDuration.WithLabelValues(c.Provider(), c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		if ctx.Err() != nil {
			return nil, errors.NewLLMTimeoutError(c.Provider())
		}
		return nil, errors.NewLLMUnavailableError(c.Provider(), err)
	}

	return c.parseResponse(resp)
}

func buildGeminiRequest(req *Request) (*genai.GenerateContentConfig, []*genai.Content, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	temp := float32(req.Temperature)
	cfg.Temperature = &temp
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	for _, tool := range req.Tools {
		cfg.Tools = append(cfg.Tools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  geminiSchema(tool.Parameters),
				},
			},
		})
	}

	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(*req.ResponseSchema)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		content, err := convGeminiMessage(msg)
		if err != nil {
			return nil, nil, err
		}
		contents = append(contents, content)
	}
	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("gemini request needs at least one message")
	}

	return cfg, contents, nil
}

func convGeminiMessage(msg Message) (*genai.Content, error) {
	switch msg.Role {
	case RoleUser:
		return &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		}, nil

	case RoleAssistant:
		if len(msg.ToolCalls) > 0 {
			parts := make([]*genai.Part, 0, len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				var args map[string]any
				if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
					args = map[string]any{"text": call.Arguments}
				}
				parts = append(parts, genai.NewPartFromFunctionCall(call.Name, args))
			}
			return &genai.Content{Role: "model", Parts: parts}, nil
		}
		return &genai.Content{
			Role:  "model",
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		}, nil

	case RoleTool:
		// Function responses travel back on the user role.
		var result map[string]any
		if err := json.Unmarshal([]byte(msg.Content), &result); err != nil {
			result = map[string]any{"text": msg.Content}
		}
		return &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromFunctionResponse(msg.ToolName, result)},
		}, nil

	default:
		return nil, fmt.Errorf("unexpected message role: %s", msg.Role)
	}
}

func (c *GeminiClient) parseResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.NewLLMBadResponseError(c.Provider(), "no candidates")
	}
	cand := resp.Candidates[0]

	out := &Response{}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
		if p.FunctionCall != nil {
			args, _ := json.Marshal(p.FunctionCall.Args)
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        p.FunctionCall.Name,
				Name:      p.FunctionCall.Name,
				Arguments: string(args),
			})
		}
	}
	out.Text = sb.String()

	// Gemini reports STOP even when the candidate carries function calls.
	switch cand.FinishReason {
	case genai.FinishReasonStop, genai.FinishReasonUnspecified, "":
		if len(out.ToolCalls) > 0 {
			out.StopReason = StopReasonToolCalls
		} else {
			out.StopReason = StopReasonStop
		}
	case genai.FinishReasonMaxTokens:
		out.StopReason = StopReasonMaxTokens
	case genai.FinishReasonSafety:
		out.StopReason = StopReasonContentFilter
	default:
		out.StopReason = string(cand.FinishReason)
	}

	if resp.UsageMetadata != nil {
		out.Usage = TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return out, nil
}

func geminiSchema(schema validation.JSONSchema) *genai.Schema {
	gs := &genai.Schema{
		Type:     geminiType(schema.Type),
		Required: schema.Required,
	}
	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for name, prop := range schema.Properties {
			gs.Properties[name] = geminiProperty(prop)
		}
	}
	return gs
}

func geminiProperty(prop validation.Property) *genai.Schema {
	gs := &genai.Schema{
		Type:        geminiType(prop.Type),
		Description: prop.Description,
		Enum:        prop.Enum,
		Required:    prop.Required,
	}
	if prop.Items != nil {
		gs.Items = geminiProperty(*prop.Items)
	}
	if n := len(prop.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for name, nested := range prop.Properties {
			gs.Properties[name] = geminiProperty(nested)
		}
	}
	return gs
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
