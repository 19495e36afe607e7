// internal/models/restaurant.go
package models

import (
	"fmt"
	"strings"
)

// WeekdayOrder is the canonical day ordering used whenever hours are
// rendered for prompts or tool output.
var WeekdayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

type Restaurant struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Cuisine      string            `json:"cuisine"`
	Hours        map[string]string `json:"hours"`
	Address      string            `json:"address"`
	Phone        string            `json:"phone"`
	Website      string            `json:"website,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	Specials     []string          `json:"specials,omitempty"`
	MenuItems    []MenuItem        `json:"menuItems"`
	CreatedAt    string            `json:"createdAt,omitempty"`
	UpdatedAt    string            `json:"updatedAt,omitempty"`
}

type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
}

// HoursFor looks up the hours string for a weekday, case-insensitive.
func (r *Restaurant) HoursFor(day string) (string, bool) {
	hours, ok := r.Hours[strings.ToLower(day)]
	return hours, ok
}

// HoursSummary renders opening hours in weekday order for prompt text.
func (r *Restaurant) HoursSummary() string {
	if len(r.Hours) == 0 {
		return "not specified"
	}
	parts := make([]string, 0, len(r.Hours))
	for _, day := range WeekdayOrder {
		if hours, ok := r.Hours[day]; ok {
			parts = append(parts, fmt.Sprintf("%s%s: %s", strings.ToUpper(day[:1]), day[1:], hours))
		}
	}
	return strings.Join(parts, ", ")
}
