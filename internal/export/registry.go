// Package export holds the pending-export table and the JSON Lines page
// writer. A paginate command issued with an export directory records where
// the page should be written; the matching result event, which arrives
// asynchronously and possibly out of order with later commands, consumes
// that record and materializes the page.
package export

import "sync"

// Key identifies one pending export: the operator the page was requested
// from and the 1-based page index.
type Key struct {
	OperatorID string
	PageIndex  int
}

// Request is the recorded export directive: where to write the page and
// the page size the user asked for. The requested size is part of the
// export file name even when the returned page is short.
type Request struct {
	Dir      string
	PageSize int
}

// Registry is the pending-export table. It is shared between the outbound
// command path, which records entries, and the inbound dispatch path, which
// consumes them. One mutex around both operations is sufficient: there is
// exactly one writer role and one reader/remover role per session.
type Registry struct {
	mu      sync.Mutex
	pending map[Key]Request
}

// NewRegistry creates an empty pending-export table.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[Key]Request)}
}

// Put records an export directive for a key, replacing any previous entry
// for the same key.
func (r *Registry) Put(k Key, req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[k] = req
}

// Take removes and returns the entry for a key. The second return value
// reports whether an entry was present. An entry can be taken at most once;
// a second result event for the same key finds nothing.
func (r *Registry) Take(k Key) (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.pending[k]
	if ok {
		delete(r.pending, k)
	}
	return req, ok
}

// Len reports the number of entries that have not been matched yet.
// Entries are never evicted; the session reports the count at close so
// paginate requests that never got a response are at least visible.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
