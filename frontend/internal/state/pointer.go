package state

import (
	"fmt"

	"github.com/tasks-dev/tasks/shared/domain"
)

type PointerKind int

const (
	PointerNone PointerKind = iota
	PointerByName
	PointerById
)

func (k PointerKind) String() string {
	switch k {
	case PointerByName:
		return "name"
	case PointerById:
		return "id"
	default:
		return "none"
	}
}

// ThreadPointer selects the active thread by name or by id. It is a value:
// it never references a loaded Thread, so it survives thread list reloads and
// is resolved again on every read. The zero value matches nothing.
type ThreadPointer struct {
	kind PointerKind
	name domain.ThreadName
	id   domain.ThreadId
}

func ByName(name domain.ThreadName) ThreadPointer {
	return ThreadPointer{kind: PointerByName, name: name}
}

func ById(id domain.ThreadId) ThreadPointer {
	return ThreadPointer{kind: PointerById, id: id}
}

func (p ThreadPointer) Kind() PointerKind       { return p.kind }
func (p ThreadPointer) Name() domain.ThreadName { return p.name }
func (p ThreadPointer) Id() domain.ThreadId     { return p.id }

// Matches is the pointer's predicate.
func (p ThreadPointer) Matches(t domain.Thread) bool {
	switch p.kind {
	case PointerByName:
		return t.Name == p.name
	case PointerById:
		return t.Id == p.id
	default:
		return false
	}
}

func (p ThreadPointer) String() string {
	switch p.kind {
	case PointerByName:
		return fmt.Sprintf("name:%s", p.name)
	case PointerById:
		return fmt.Sprintf("id:%d", p.id)
	default:
		return "none"
	}
}

// Resolve returns the first thread the pointer matches. No match is not an
// error: callers treat it as "no current thread".
func Resolve(p ThreadPointer, threads []domain.Thread) (domain.Thread, bool) {
	for _, t := range threads {
		if p.Matches(t) {
			return t, true
		}
	}
	return domain.Thread{}, false
}
