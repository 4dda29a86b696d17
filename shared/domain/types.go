package domain

type (
	ThreadId   = int64
	ThreadName = string

	BoardId    = int64
	BoardFocus = string
)
