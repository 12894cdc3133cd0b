package playlist

import (
	"sync"

	"github.com/osa030/19dl/internal/domain/track"
)

// Queue is a FIFO of track references shared by the workers draining a playlist.
type Queue struct {
	mu    sync.Mutex
	items []track.Reference
}

// NewQueue creates a queue holding a copy of refs.
func NewQueue(refs []track.Reference) *Queue {
	items := make([]track.Reference, len(refs))
	copy(items, refs)
	return &Queue{items: items}
}

// Push appends a reference to the back of the queue.
func (q *Queue) Push(ref track.Reference) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, ref)
}

// Pop removes and returns the front reference.
// Returns false when the queue is empty.
func (q *Queue) Pop() (track.Reference, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false
	}
	ref := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	return ref, true
}

// Len returns the number of queued references.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Refs returns a snapshot of the queued references.
func (q *Queue) Refs() []track.Reference {
	q.mu.Lock()
	defer q.mu.Unlock()
	refs := make([]track.Reference, len(q.items))
	copy(refs, q.items)
	return refs
}
