package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tasks-dev/tasks/shared/domain"
)

func TestThreadPointer(t *testing.T) {
	daily := domain.Thread{Id: 1, Name: "Daily"}

	t.Run("by name", func(t *testing.T) {
		p := ByName("Daily")
		assert.Equal(t, PointerByName, p.Kind())
		assert.True(t, p.Matches(daily))
		assert.False(t, p.Matches(domain.Thread{Id: 1, Name: "Weekly"}))
		assert.Equal(t, "name:Daily", p.String())
	})

	t.Run("by id", func(t *testing.T) {
		p := ById(1)
		assert.Equal(t, PointerById, p.Kind())
		assert.True(t, p.Matches(daily))
		assert.False(t, p.Matches(domain.Thread{Id: 2, Name: "Daily"}))
		assert.Equal(t, "id:1", p.String())
	})

	t.Run("zero value matches nothing", func(t *testing.T) {
		var p ThreadPointer
		assert.Equal(t, PointerNone, p.Kind())
		assert.False(t, p.Matches(daily))
		assert.False(t, p.Matches(domain.Thread{}))
		assert.Equal(t, "none", p.String())
	})
}

func TestResolve(t *testing.T) {
	threads := []domain.Thread{
		{Id: 1, Name: "Daily"},
		{Id: 7, Name: "Weekly"},
		{Id: 42, Name: "Monthly"},
	}

	t.Run("every thread is reachable by name and by id", func(t *testing.T) {
		for _, want := range threads {
			got, ok := Resolve(ByName(want.Name), threads)
			assert.True(t, ok)
			assert.Equal(t, want, got)

			got, ok = Resolve(ById(want.Id), threads)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}
	})

	t.Run("no match is absent", func(t *testing.T) {
		_, ok := Resolve(ByName("Yearly"), threads)
		assert.False(t, ok)
		_, ok = Resolve(ById(99), threads)
		assert.False(t, ok)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := Resolve(ByName("Daily"), nil)
		assert.False(t, ok)
	})

	t.Run("first match wins", func(t *testing.T) {
		dup := []domain.Thread{{Id: 3, Name: "Daily"}, {Id: 4, Name: "Daily"}}
		got, ok := Resolve(ByName("Daily"), dup)
		assert.True(t, ok)
		assert.Equal(t, domain.ThreadId(3), got.Id)
	})
}
