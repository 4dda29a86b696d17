package domain

// Thread groups boards. Threads are read-only for the frontend: the list is
// fetched and replaced as a whole, never edited in place.
type Thread struct {
	Id   ThreadId   `json:"id"`
	Name ThreadName `json:"name"`
}
