// internal/assistant/tools/waittime.go
package tools

import (
	"context"
	"fmt"
	"math/rand"

	"restaurant-ai-service/internal/common/validation"
)

const defaultWalkInParty = 2

// WaitTimeTool estimates the current walk-in wait. The queue depth is a
// stand-in until a host-stand feed is wired up.
type WaitTimeTool struct {
	rng func() float64
}

func NewWaitTimeTool() *WaitTimeTool {
	return &WaitTimeTool{rng: rand.Float64}
}

func (t *WaitTimeTool) Name() string { return "get_wait_time" }

func (t *WaitTimeTool) Description() string {
	return "Get current wait time for walk-ins"
}

func (t *WaitTimeTool) Parameters() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"party_size": {
				Type:        "integer",
				Description: "Number of guests waiting for a table",
				Minimum:     floatPtr(1),
			},
		},
	}
}

type waitTimeInput struct {
	PartySize int `json:"party_size"`
}

func (t *WaitTimeTool) Call(ctx context.Context, args map[string]interface{}) (string, error) {
	var input waitTimeInput
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	partySize := input.PartySize
	if partySize <= 0 {
		partySize = defaultWalkInParty
	}

	queueSteps := int(t.rng() * 4)
	if queueSteps > 3 {
		queueSteps = 3
	}
	waitMinutes := 10 + 15*queueSteps
	if partySize >= 6 {
		waitMinutes += 10
	}

	return fmt.Sprintf("Current wait time for a party of %d is approximately %d minutes.",
		partySize, waitMinutes), nil
}
