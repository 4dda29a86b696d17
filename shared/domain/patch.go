package domain

import "time"

// BoardPatch is a partial board. Nil fields are left untouched when merged.
type BoardPatch struct {
	Id          *BoardId
	DateStarted *time.Time
	Focus       *BoardFocus
	State       *State
}

// Apply overwrites the fields present in the patch (shallow).
func (p BoardPatch) Apply(b Board) Board {
	out := b.Clone()
	if p.Id != nil {
		id := *p.Id
		out.Id = &id
	}
	if p.DateStarted != nil {
		ts := *p.DateStarted
		out.DateStarted = &ts
	}
	if p.Focus != nil {
		out.Focus = *p.Focus
	}
	if p.State != nil {
		out.State = p.State.Clone()
	}
	return out
}

// Unchanged reports whether saving the patch over b would be a no-op: both
// state and focus must be present and equal to b's.
func (p BoardPatch) Unchanged(b Board) bool {
	if p.State == nil || p.Focus == nil {
		return false
	}
	return p.State.Equal(b.State) && *p.Focus == b.Focus
}
