package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/argmesh/core"
)

// Entry describes one outstanding prompt.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	ChannelID string    `json:"channel_id"`
	AuthorID  string    `json:"author_id"`
	Since     time.Time `json:"since"`
}

// InMemoryTracker is a volatile PromptTracker storing outstanding prompts in
// a process local map keyed by channel and author. It is safe for concurrent
// access.
type InMemoryTracker struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewInMemoryTracker constructs an empty in-memory prompt tracker.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{entries: make(map[string]Entry), now: time.Now}
}

// Register marks the conversation slot of msg as prompting. Registering an
// already active slot keeps the original entry.
func (t *InMemoryTracker) Register(msg *core.Message) {
	if msg == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := msg.Key()
	if _, ok := t.entries[key]; ok {
		return
	}
	t.entries[key] = Entry{
		ID:        uuid.New(),
		ChannelID: msg.ChannelID,
		AuthorID:  msg.AuthorID,
		Since:     t.now().UTC(),
	}
}

// Deregister clears the conversation slot of msg. Unknown slots are ignored.
func (t *InMemoryTracker) Deregister(msg *core.Message) {
	if msg == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, msg.Key())
}

// Active reports whether the conversation slot of msg has an outstanding prompt.
func (t *InMemoryTracker) Active(msg *core.Message) bool {
	if msg == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[msg.Key()]
	return ok
}

// Lookup returns the entry for the conversation slot of msg.
func (t *InMemoryTracker) Lookup(msg *core.Message) (Entry, bool) {
	if msg == nil {
		return Entry{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[msg.Key()]
	return e, ok
}

// Entries returns a snapshot of all outstanding prompts, oldest first.
func (t *InMemoryTracker) Entries() []Entry {
	t.mu.RLock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Since.Equal(out[j].Since) {
			return out[i].ChannelID+"/"+out[i].AuthorID < out[j].ChannelID+"/"+out[j].AuthorID
		}
		return out[i].Since.Before(out[j].Since)
	})
	return out
}
