// internal/llm/openai.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/common/validation"
)

// OpenAIClient implements Client over the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	client := openai.NewClient(reqOpts...)
	return &OpenAIClient{client: &client, model: opts.Model}
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	params := c.buildParams(req)

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	metrics.LLMRequestDuration.WithLabelValues(c.Provider(), c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewLLMTimeoutError(c.Provider())
		}
		return nil, errors.NewLLMUnavailableError(c.Provider(), err)
	}

	return c.parseResponse(resp)
}

func (c *OpenAIClient) buildParams(req *Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.NewOpt(req.System),
				},
			},
		})
	}
	for _, msg := range req.Messages {
		msgs = append(msgs, convOpenAIMessage(msg))
	}

	params := openai.ChatCompletionNewParams{
		Messages:    msgs,
		Model:       c.model,
		Temperature: param.NewOpt(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}

	for _, tool := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: param.NewOpt(tool.Description),
				Parameters:  functionParameters(tool.Parameters),
			},
		})
	}
	if len(params.Tools) > 0 {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt("auto"),
		}
	}

	// json_schema response format and tools conflict; structured output
	// callers never pass tools.
	if req.ResponseSchema != nil {
		params.Tools = nil
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.ResponseName,
					Schema: functionParameters(*req.ResponseSchema),
				},
			},
		}
	}

	return params
}

func convOpenAIMessage(msg Message) openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case RoleTool:
		return openai.ToolMessage(msg.Content, msg.ToolCallID)
	case RoleAssistant:
		if len(msg.ToolCalls) > 0 {
			calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: call.Arguments,
					},
				})
			}
			return openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
			}
		}
		return openai.ChatCompletionMessageParamUnion{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				},
			},
		}
	default:
		return openai.ChatCompletionMessageParamUnion{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				},
			},
		}
	}
}

func (c *OpenAIClient) parseResponse(resp *openai.ChatCompletion) (*Response, error) {
	if len(resp.Choices) == 0 {
		return nil, errors.NewLLMBadResponseError(c.Provider(), "no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, errors.NewLLMBadResponseError(c.Provider(), "refusal: "+choice.Message.Refusal)
	}

	out := &Response{
		Text: choice.Message.Content,
		Usage: TokenUsage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}
	for _, call := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	switch choice.FinishReason {
	case "stop":
		out.StopReason = StopReasonStop
	case "tool_calls", "function_call":
		out.StopReason = StopReasonToolCalls
	case "length":
		out.StopReason = StopReasonMaxTokens
	case "content_filter":
		out.StopReason = StopReasonContentFilter
	default:
		out.StopReason = choice.FinishReason
	}

	return out, nil
}

// functionParameters converts a tool schema to the loose map shape the
// SDK expects.
func functionParameters(schema validation.JSONSchema) openai.FunctionParameters {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var m openai.FunctionParameters
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}
