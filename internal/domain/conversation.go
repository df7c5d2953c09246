package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// History is an append-only conversation log. It is owned by a single
// session and is not safe for concurrent use on its own.
type History struct {
	turns []Turn
}

func (h *History) Append(t Turn) {
	if t.At.IsZero() {
		t.At = time.Now()
	}
	h.turns = append(h.turns, t)
}

// All returns the turns in insertion order. The slice is a copy.
func (h *History) All() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int { return len(h.turns) }
