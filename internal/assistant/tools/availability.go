// internal/assistant/tools/availability.go
package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"restaurant-ai-service/internal/common/validation"
)

const slotInterval = 30 * time.Minute

// dateTimeLayouts covers the timestamp shapes models produce for a
// requested reservation time.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// AvailabilityTool reports open table slots around a requested time. The
// availability source is a stand-in until a reservation book is wired up.
type AvailabilityTool struct {
	rng func() float64
}

func NewAvailabilityTool() *AvailabilityTool {
	return &AvailabilityTool{rng: rand.Float64}
}

func (t *AvailabilityTool) Name() string { return "check_availability" }

func (t *AvailabilityTool) Description() string {
	return "Check table availability for a given date, time, and party size"
}

func (t *AvailabilityTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"date_time": {
				Type:        "string",
				Description: "Requested time in ISO 8601 format, e.g. 2025-06-01T19:00:00",
			},
			"party_size": {
				Type:        "integer",
				Description: "Number of guests",
				Minimum:     floatPtr(1),
			},
		},
		Required: []string{"date_time", "party_size"},
	}
}

type availabilityInput struct {
	DateTime  string `json:"date_time"`
	PartySize int    `json:"party_size"`
}

func (t *AvailabilityTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input availabilityInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	requested, err := parseDateTime(input.DateTime)
	if err != nil {
		return "", err
	}

	// Probe the requested slot plus the half hour on either side.
	var slots []string
	for i := -1; i <= 1; i++ {
		slot := requested.Add(time.Duration(i) * slotInterval)
		if t.slotAvailable(slot, input.PartySize) {
			slots = append(slots, slot.Format("03:04 PM"))
		}
	}

	if len(slots) > 0 {
		return fmt.Sprintf("Available times for party of %d: %s", input.PartySize, strings.Join(slots, ", ")), nil
	}
	return fmt.Sprintf("No availability for party of %d at requested time. Try different time?", input.PartySize), nil
}

func (t *AvailabilityTool) slotAvailable(slot time.Time, partySize int) bool {
	return t.rng() > 0.3
}

func parseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q", value)
}
