package api

import (
	"time"

	"github.com/tasks-dev/tasks/shared/domain"
)

// ListResponse is the counted collection returned by list endpoints.
type ListResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// NewListResponse wraps results keeping count in sync.
func NewListResponse[T any](results []T) ListResponse[T] {
	if results == nil {
		results = []T{}
	}
	return ListResponse[T]{Count: len(results), Results: results}
}

type ThreadListResponse = ListResponse[domain.Thread]
type BoardListResponse = ListResponse[domain.Board]

// Request DTOs

type InitBoardRequest struct {
	ThreadName string `json:"thread_name" validate:"required"`
}

type SaveBoardRequest struct {
	Id          *domain.BoardId    `json:"id,omitempty"`
	DateStarted *time.Time         `json:"date_started,omitempty"`
	Focus       *domain.BoardFocus `json:"focus,omitempty" validate:"omitempty,max=255"`
	State       *domain.State      `json:"state,omitempty"`
}

func (r SaveBoardRequest) Patch() domain.BoardPatch {
	return domain.BoardPatch{
		Id:          r.Id,
		DateStarted: r.DateStarted,
		Focus:       r.Focus,
		State:       r.State,
	}
}

// Response DTOs

type PointerResponse struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Id   int64  `json:"id,omitempty"`
}

type SummaryResponse struct {
	Tasks     int `json:"tasks"`
	Finished  int `json:"finished"`
	Postponed int `json:"postponed"`
	Removed   int `json:"removed"`
}

// StateResponse is what every UI action answers with.
type StateResponse struct {
	Pointer       PointerResponse   `json:"pointer"`
	Threads       []domain.Thread   `json:"threads"`
	CurrentThread *domain.Thread    `json:"current_thread"`
	Boards        BoardListResponse `json:"boards"`
	CurrentBoard  domain.Board      `json:"current_board"`
	Summary       SummaryResponse   `json:"summary"`
}
