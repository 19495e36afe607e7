// internal/assistant/tools/reservation.go
package tools

import (
	"context"
	"fmt"
	"time"

	"restaurant-ai-service/internal/common/validation"
)

// ReservationTool books a table and returns the confirmation line.
type ReservationTool struct {
	now func() time.Time
}

func NewReservationTool() *ReservationTool {
	return &ReservationTool{now: time.Now}
}

func (t *ReservationTool) Name() string { return "make_reservation" }

func (t *ReservationTool) Description() string {
	return "Create a reservation for the customer"
}

func (t *ReservationTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"name": {
				Type:        "string",
				Description: "Customer name for the booking",
			},
			"phone": {
				Type:        "string",
				Description: "Customer contact phone number",
			},
			"date_time": {
				Type:        "string",
				Description: "Requested time in ISO 8601 format",
			},
			"party_size": {
				Type:        "integer",
				Description: "Number of guests",
				Minimum:     floatPtr(1),
			},
			"special_requests": {
				Type:        "string",
				Description: "Optional notes such as allergies or seating preferences",
			},
		},
		Required: []string{"name", "phone", "date_time", "party_size"},
	}
}

type reservationInput struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	DateTime        string `json:"date_time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

func (t *ReservationTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input reservationInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	if !validation.ValidatePhone(input.Phone) {
		return "", fmt.Errorf("invalid phone number %q", input.Phone)
	}

	reservationID := "RES-" + t.now().Format("20060102150405")
	return fmt.Sprintf("Reservation confirmed! ID: %s for %s, party of %d on %s",
		reservationID, input.Name, input.PartySize, input.DateTime), nil
}
