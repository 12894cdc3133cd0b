// Package playlist provides the Playlist domain entity and its work queue.
package playlist

import (
	"sync"

	"github.com/osa030/19dl/internal/domain/library"
	"github.com/osa030/19dl/internal/domain/track"
)

// State represents the drain lifecycle of a playlist.
type State int

const (
	StatePending  State = iota // Queue populated, waiting for workers
	StateDraining              // Workers are consuming the queue
	StateDone                  // Queue empty and every worker has returned
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Playlist represents a named group of track references read from the input list.
type Playlist struct {
	Name  string // Playlist name, used as the output sub-directory
	Queue *Queue // Remaining track references

	mu    sync.RWMutex
	state State
}

// New creates a pending playlist holding the given references in order.
func New(name string, refs []track.Reference) *Playlist {
	return &Playlist{
		Name:  name,
		Queue: NewQueue(refs),
		state: StatePending,
	}
}

// SanitizeName strips characters that are illegal in file names.
// Calling it more than once has no further effect.
func (p *Playlist) SanitizeName() {
	p.Name = library.Sanitize(p.Name)
}

// State returns the current lifecycle state.
func (p *Playlist) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetState sets the lifecycle state.
func (p *Playlist) SetState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}
