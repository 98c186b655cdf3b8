package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/argmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.PromptTracker = (*InMemoryTracker)(nil)

func TestInMemoryTracker_RegisterDeregister(t *testing.T) {
	tr := NewInMemoryTracker()
	msg := core.NewMessage("general", "alice", "!order")

	assert.False(t, tr.Active(msg))

	tr.Register(msg)
	assert.True(t, tr.Active(msg))

	// A reply in the same slot shares the entry.
	reply := msg.NewReply("alice", "large")
	assert.True(t, tr.Active(reply))

	// Other authors and channels are unaffected.
	assert.False(t, tr.Active(msg.NewReply("bob", "hi")))
	assert.False(t, tr.Active(core.NewMessage("random", "alice", "hi")))

	tr.Deregister(msg)
	assert.False(t, tr.Active(msg))
	assert.Empty(t, tr.Entries())
}

func TestInMemoryTracker_RegisterIsIdempotent(t *testing.T) {
	tr := NewInMemoryTracker()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tr.now = func() time.Time { return base }

	msg := core.NewMessage("general", "alice", "!order")
	tr.Register(msg)
	first, ok := tr.Lookup(msg)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, base, first.Since)

	tr.now = func() time.Time { return base.Add(time.Minute) }
	tr.Register(msg)
	second, ok := tr.Lookup(msg)
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Len(t, tr.Entries(), 1)
}

func TestInMemoryTracker_EntriesOrdered(t *testing.T) {
	tr := NewInMemoryTracker()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tr.now = func() time.Time { return base.Add(time.Second) }
	tr.Register(core.NewMessage("c1", "late", ""))
	tr.now = func() time.Time { return base }
	tr.Register(core.NewMessage("c1", "early", ""))

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].AuthorID)
	assert.Equal(t, "late", entries[1].AuthorID)
}

func TestInMemoryTracker_NilMessage(t *testing.T) {
	tr := NewInMemoryTracker()
	tr.Register(nil)
	tr.Deregister(nil)
	assert.False(t, tr.Active(nil))
	_, ok := tr.Lookup(nil)
	assert.False(t, ok)
}

func TestInMemoryTracker_Concurrent(t *testing.T) {
	tr := NewInMemoryTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := core.NewMessage("general", string(rune('a'+i%26)), "")
			tr.Register(msg)
			_ = tr.Active(msg)
			tr.Deregister(msg)
		}(i)
	}
	wg.Wait()
	assert.Empty(t, tr.Entries())
}
