// internal/assistant/agent/history.go
package agent

import (
	"sync"

	"restaurant-ai-service/internal/llm"
)

// History keeps the most recent exchanges of one conversation. The window
// counts exchanges, so a window of 10 retains up to 20 messages.
type History struct {
	mu     sync.Mutex
	window int
	turns  []llm.Message
}

func NewHistory(window int) *History {
	return &History{window: window}
}

// Append records a completed user/assistant exchange, evicting the oldest
// exchanges once the window is full.
func (h *History) Append(userInput, assistantOutput string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, llm.UserMessage(userInput), llm.AssistantMessage(assistantOutput))
	if max := h.window * 2; len(h.turns) > max {
		h.turns = h.turns[len(h.turns)-max:]
	}
}

// Turns returns a copy of the retained messages, oldest first.
func (h *History) Turns() []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]llm.Message, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
