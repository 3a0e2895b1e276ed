package domain

import "time"

// Class is the priority class of a narration request. Lower values are
// delivered first and get the queue's reserved headroom.
type Class int

const (
	// ClassGame is live-game narration.
	ClassGame Class = iota
	// ClassAskAI is an answer to a viewer question.
	ClassAskAI
	// ClassSystem is a plain system notice.
	ClassSystem
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassGame:
		return "game"
	case ClassAskAI:
		return "askai"
	case ClassSystem:
		return "system"
	}
	return "unknown"
}

// NarrationRequest is one utterance waiting for delivery. Created by
// the scheduler or the askai path, consumed exactly once by the output
// consumer, never mutated after creation.
type NarrationRequest struct {
	Class    Class
	User     string // attribution for askai answers, empty otherwise
	Text     string
	QueuedAt time.Time
}
