// internal/assistant/respond/templates.go

// Package respond renders customer-facing responses from scenario-keyed
// prompt templates and a generation model.
package respond

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"restaurant-ai-service/internal/common/errors"
)

// Template is a (system, human) prompt pair with {slot} placeholders.
type Template struct {
	System string
	Human  string
}

var slotPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// TemplateSet holds the response templates for one restaurant. The review
// templates embed the restaurant name.
type TemplateSet struct {
	templates map[string]Template
}

func NewTemplateSet(restaurantName string) *TemplateSet {
	return &TemplateSet{templates: map[string]Template{
		"reservation_confirm": {
			System: "You are confirming a reservation. Be professional and include all details.",
			Human:  "Confirm reservation for {name}, party of {size} on {date} at {time}",
		},
		"reservation_unavailable": {
			System: "The requested time is not available. Offer alternatives politely.",
			Human:  "No availability for {size} people at {time}. Alternatives: {alternatives}",
		},
		"menu_response": {
			System: "Provide menu information enthusiastically. Mention prices and any specials.",
			Human:  "Customer asking about: {query}. Menu items: {items}",
		},
		"order_confirmation": {
			System: "Confirm the order clearly with all details and total price.",
			Human:  "Order details: {order_details}",
		},
		"review_response_positive": {
			System: fmt.Sprintf("Respond to a positive review for %s. Be grateful and personal.", restaurantName),
			Human:  "Review: {review_text}, Rating: {rating}/5",
		},
		"review_response_negative": {
			System: fmt.Sprintf("Respond to a negative review for %s. Be apologetic, professional, and offer to make things right.", restaurantName),
			Human:  "Review: {review_text}, Rating: {rating}/5, Issues mentioned: {issues}",
		},
	}}
}

func (s *TemplateSet) Get(name string) (Template, error) {
	tpl, ok := s.templates[name]
	if !ok {
		return Template{}, errors.NewTemplateNotFoundError(name)
	}
	return tpl, nil
}

// Names lists the known template names, sorted.
func (s *TemplateSet) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fill resolves every {slot} placeholder from the variables map. A slot
// without a matching variable fails the whole fill.
func (t Template) Fill(vars map[string]interface{}) (Template, error) {
	system, err := fillSlots(t.System, vars)
	if err != nil {
		return Template{}, err
	}
	human, err := fillSlots(t.Human, vars)
	if err != nil {
		return Template{}, err
	}
	return Template{System: system, Human: human}, nil
}

func fillSlots(text string, vars map[string]interface{}) (string, error) {
	var missing []string
	filled := slotPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return stringify(value)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return filled, nil
}

// stringify renders a variable for prompt text; structured values become
// compact JSON.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
