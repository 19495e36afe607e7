// internal/assistant/tools/hours.go
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-ai-service/internal/common/validation"
	"restaurant-ai-service/internal/models"
)

// HoursTool answers opening-hours questions from the restaurant profile.
type HoursTool struct {
	restaurant *models.Restaurant
	now        func() time.Time
}

func NewHoursTool(restaurant *models.Restaurant) *HoursTool {
	return &HoursTool{restaurant: restaurant, now: time.Now}
}

func (t *HoursTool) Name() string { return "check_hours" }

func (t *HoursTool) Description() string {
	return "Get restaurant operating hours for a specific day"
}

func (t *HoursTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"day": {
				Type:        "string",
				Description: "Day of the week, e.g. friday. Defaults to today.",
			},
		},
	}
}

type hoursInput struct {
	Day string `json:"day"`
}

func (t *HoursTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input hoursInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	day := strings.ToLower(strings.TrimSpace(input.Day))
	if day == "" {
		day = strings.ToLower(t.now().Weekday().String())
	}
	if !isWeekday(day) {
		return "", fmt.Errorf("unknown day %q", input.Day)
	}

	hours, ok := t.restaurant.HoursFor(day)
	if !ok || strings.EqualFold(hours, "closed") {
		return fmt.Sprintf("We're closed on %s.", titleDay(day)), nil
	}
	return fmt.Sprintf("On %s we're open %s.", titleDay(day), hours), nil
}

func isWeekday(day string) bool {
	for _, d := range models.WeekdayOrder {
		if d == day {
			return true
		}
	}
	return false
}

func titleDay(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}
