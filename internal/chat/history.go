package chat

import "trade-ledger-bot/internal/types"

// History is a bounded FIFO of conversation turns. It lives for the process
// and is injected into the orchestrator rather than held as package state.
// Appends are not synchronized; the service assumes a single-writer request
// model.
type History struct {
	capacity int
	entries  []types.ChatMessage
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Append records one turn, evicting the oldest entry once capacity is hit.
func (h *History) Append(role, text string) {
	h.entries = append(h.entries, types.ChatMessage{Role: role, Text: text})
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Messages returns a copy of the current window, oldest first.
func (h *History) Messages() []types.ChatMessage {
	out := make([]types.ChatMessage, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}
