// internal/assistant/respond/generator.go
package respond

import (
	"context"
	"fmt"

	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/llm"
)

const generationTemperature = 0.7

// Tone modifiers appended to the template's system prompt.
const (
	ToneCasual = "casual"
	ToneFormal = "formal"
)

// Generator turns a template name plus variables into customer-facing prose.
type Generator struct {
	llm            llm.Client
	templates      *TemplateSet
	restaurantName string
	logger         logger.Logger
}

func NewGenerator(client llm.Client, restaurantName string, log logger.Logger) *Generator {
	return &Generator{
		llm:            client,
		templates:      NewTemplateSet(restaurantName),
		restaurantName: restaurantName,
		logger:         log.WithFields(map[string]interface{}{"component": "response-generator"}),
	}
}

// Generate renders the named template with the given variables and asks the
// model for the final wording. Unknown template names fall back to a generic
// assistant prompt built from the "query" variable.
func (g *Generator) Generate(ctx context.Context, templateName string, variables map[string]interface{}, tone string) (string, error) {
	tpl, err := g.templates.Get(templateName)
	if err != nil {
		g.logger.Debug("no template for scenario, using generic prompt", map[string]interface{}{
			"template": templateName,
		})
		return g.generateGeneric(ctx, variables)
	}

	filled, err := tpl.Fill(variables)
	if err != nil {
		return "", errors.NewInvalidInputError(err.Error())
	}

	system := filled.System
	switch tone {
	case ToneCasual:
		system += " Be friendly and casual"
	case ToneFormal:
		system += " Be formal and professional"
	}

	resp, err := g.llm.Complete(ctx, &llm.Request{
		System:      system,
		Messages:    []llm.Message{llm.UserMessage(filled.Human)},
		Temperature: generationTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (g *Generator) generateGeneric(ctx context.Context, variables map[string]interface{}) (string, error) {
	query, _ := variables["query"].(string)

	resp, err := g.llm.Complete(ctx, &llm.Request{
		System:      fmt.Sprintf("You are an AI assistant for %s. Help the customer with their inquiry.", g.restaurantName),
		Messages:    []llm.Message{llm.UserMessage(query)},
		Temperature: generationTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Customer is the visit history used to personalize a response.
type Customer struct {
	Name        string `json:"name"`
	VisitCount  int    `json:"visit_count"`
	Preferences string `json:"preferences"`
}

// Personalize layers the customer's name, visit count, and preferences onto
// a base response without changing its core message. A nil customer returns
// the base response untouched.
func (g *Generator) Personalize(ctx context.Context, baseResponse string, customer *Customer) (string, error) {
	if customer == nil {
		return baseResponse, nil
	}

	name := customer.Name
	if name == "" {
		name = "Guest"
	}
	preferences := customer.Preferences
	if preferences == "" {
		preferences = "none noted"
	}

	human := fmt.Sprintf(`Base response: %s
Customer name: %s
Visit history: %d
Preferences: %s

Add personal touches without changing the core message.`,
		baseResponse, name, customer.VisitCount, preferences)

	resp, err := g.llm.Complete(ctx, &llm.Request{
		System:      "Personalize this restaurant response based on customer history.",
		Messages:    []llm.Message{llm.UserMessage(human)},
		Temperature: generationTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
