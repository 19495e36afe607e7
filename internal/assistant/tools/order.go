// internal/assistant/tools/order.go
package tools

import (
	"context"
	"fmt"
	"time"

	"restaurant-ai-service/internal/common/validation"
)

// OrderTool prices a takeout or delivery order and quotes a prep time.
type OrderTool struct {
	now func() time.Time
}

func NewOrderTool() *OrderTool {
	return &OrderTool{now: time.Now}
}

func (t *OrderTool) Name() string { return "process_order" }

func (t *OrderTool) Description() string {
	return "Process a takeout or delivery order"
}

func (t *OrderTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"items": {
				Type:        "array",
				Description: "Ordered items with unit price and quantity",
				Items: &validation.Property{
					Type: "object",
					Properties: map[string]validation.Property{
						"name":     {Type: "string", Description: "Menu item name"},
						"price":    {Type: "number", Description: "Unit price in dollars"},
						"quantity": {Type: "integer", Description: "How many of this item", Minimum: floatPtr(1)},
					},
					Required: []string{"name", "price", "quantity"},
				},
			},
			"customer": {
				Type:        "object",
				Description: "Customer contact details for pickup or delivery",
				Properties: map[string]validation.Property{
					"name":  {Type: "string"},
					"phone": {Type: "string"},
				},
			},
		},
		Required: []string{"items"},
	}
}

type orderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type orderInput struct {
	Items    []orderItem `json:"items"`
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
}

const (
	basePrepMinutes    = 15
	perItemPrepMinutes = 3
)

func (t *OrderTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input orderInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	if len(input.Items) == 0 {
		return "", fmt.Errorf("order has no items")
	}

	orderID := "ORD-" + t.now().Format("20060102150405")
	total := 0.0
	for _, item := range input.Items {
		total += item.Price * float64(item.Quantity)
	}
	prepTime := basePrepMinutes + perItemPrepMinutes*len(input.Items)

	return fmt.Sprintf("Order %s confirmed! Total: $%.2f. Ready in approximately %d minutes.",
		orderID, total, prepTime), nil
}
