// internal/assistant/tools/menu.go
package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurant-ai-service/internal/common/validation"
	"restaurant-ai-service/internal/models"
)

// MenuTool answers menu questions by substring match over the restaurant's
// configured items.
type MenuTool struct {
	restaurant *models.Restaurant
}

func NewMenuTool(restaurant *models.Restaurant) *MenuTool {
	return &MenuTool{restaurant: restaurant}
}

func (t *MenuTool) Name() string { return "get_menu_info" }

func (t *MenuTool) Description() string {
	return "Get information about menu items, prices, and ingredients"
}

func (t *MenuTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: "Dish name, ingredient, or keyword to look up",
			},
		},
		Required: []string{"query"},
	}
}

type menuInput struct {
	Query string `json:"query"`
}

func (t *MenuTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input menuInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	query := strings.ToLower(input.Query)
	var matches []string
	for _, item := range t.restaurant.MenuItems {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			matches = append(matches, fmt.Sprintf("%s: $%s - %s", item.Name, formatPrice(item.Price), item.Description))
		}
	}

	if len(matches) > 0 {
		return strings.Join(matches, "\n"), nil
	}
	return "I couldn't find specific menu items matching your query. Would you like to see our full menu?", nil
}

// formatPrice renders 12.5 as "12.5" and 12 as "12".
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
