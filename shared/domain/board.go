package domain

import (
	"time"
)

// Board is a snapshot of user state scoped to a thread.
// A nil Id means the board was never persisted.
type Board struct {
	Id          *BoardId   `json:"id"`
	DateStarted *time.Time `json:"date_started"`
	Focus       BoardFocus `json:"focus"`
	State       State      `json:"state"`
	Thread      *Thread    `json:"thread,omitempty"` // read-only, filled by the server
}

// NewBoard returns the placeholder used while no board is loaded.
func NewBoard() Board {
	return Board{State: State{}}
}

// HasId reports whether the board points at a persisted record.
func (b Board) HasId() bool {
	return b.Id != nil
}

// SameId compares ids; two unsaved boards are considered the same record.
func (b Board) SameId(other Board) bool {
	if b.Id == nil || other.Id == nil {
		return b.Id == nil && other.Id == nil
	}
	return *b.Id == *other.Id
}

// Equal compares every field the client owns. Thread is server metadata and
// is compared by id only.
func (b Board) Equal(other Board) bool {
	if !b.SameId(other) || b.Focus != other.Focus {
		return false
	}
	if !timePtrEqual(b.DateStarted, other.DateStarted) {
		return false
	}
	if (b.Thread == nil) != (other.Thread == nil) {
		return false
	}
	if b.Thread != nil && b.Thread.Id != other.Thread.Id {
		return false
	}
	return b.State.Equal(other.State)
}

// Clone returns a deep copy, so callers can't mutate a store's held entries.
func (b Board) Clone() Board {
	out := b
	if b.Id != nil {
		id := *b.Id
		out.Id = &id
	}
	if b.DateStarted != nil {
		ts := *b.DateStarted
		out.DateStarted = &ts
	}
	if b.Thread != nil {
		th := *b.Thread
		out.Thread = &th
	}
	out.State = b.State.Clone()
	return out
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func IdPtr(id BoardId) *BoardId {
	return &id
}
