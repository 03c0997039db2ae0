// Package session holds per-conversation state.
//
// A History belongs to exactly one conversation and is accessed only from
// that conversation's goroutine, so it carries no internal locking.
package session

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in the conversation.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// History is a bounded conversation transcript. When the bound is reached,
// appending evicts the oldest turn so the invariant Len() <= max always holds.
type History struct {
	turns []Turn
	max   int
}

// NewHistory creates a History bounded to max turns.
// A non-positive max falls back to a bound of 1.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{
		turns: make([]Turn, 0, max),
		max:   max,
	}
}

// Append records a turn, evicting the oldest turns when the bound is exceeded.
func (h *History) Append(role Role, content string) {
	h.turns = append(h.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(h.turns) > h.max {
		// Shift rather than reslice so evicted turns are not retained
		// by the backing array.
		n := copy(h.turns, h.turns[len(h.turns)-h.max:])
		h.turns = h.turns[:n]
	}
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of all stored turns in chronological order.
// Callers may mutate the returned slice freely.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// LastN returns a copy of the most recent n turns in chronological order.
// If fewer than n turns exist, all turns are returned.
func (h *History) LastN(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Clear discards all stored turns.
func (h *History) Clear() {
	h.turns = h.turns[:0]
}
