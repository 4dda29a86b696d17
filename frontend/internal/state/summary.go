package state

import "github.com/tasks-dev/tasks/shared/domain"

// weeks after which an untouched task is dropped when a board is closed
const staleWeeks = 5

type Summary struct {
	Tasks     int `json:"tasks"`
	Finished  int `json:"finished"`
	Postponed int `json:"postponed"`
	Removed   int `json:"removed"` // dropped when the board is closed
}

// Summarize counts items over a pre-order walk of the board state.
func Summarize(st domain.State) Summary {
	var sum Summary
	st.Walk(func(item domain.TreeItem) {
		m := item.Data.Markers
		sum.Tasks++
		if item.State.Checked {
			sum.Finished++
		}
		if m.PostponedFor > 0 {
			sum.Postponed++
		}
		if m.WeeksInList >= staleWeeks && !item.State.Checked && m.PostponedFor == 0 && !m.MadeProgress {
			sum.Removed++
		}
	})
	return sum
}
