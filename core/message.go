package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is the unit of conversation exchanged with the engine. The
// triggering command message acts as the context of every resolution and
// each prompt reply is a Message as well. After construction it should be
// treated as immutable.
type Message struct {
	ID        string            `json:"id"`
	ChannelID string            `json:"channel_id"`
	AuthorID  string            `json:"author_id"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewMessage creates a message authored by authorID in channelID.
func NewMessage(channelID, authorID, content string) *Message {
	return &Message{
		ID:        NewID(),
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewReply creates a message in the same channel as m, authored by authorID.
func (m *Message) NewReply(authorID, content string) *Message {
	return NewMessage(m.ChannelID, authorID, content)
}

// NewID generates a new unique identifier for messages and prompt sessions.
func NewID() string { return uuid.NewString() }

// Key identifies the conversation slot (channel + author) a message belongs
// to. Prompt tracking is keyed by it.
func (m *Message) Key() string { return m.ChannelID + "/" + m.AuthorID }

// SameAuthor reports whether other was written by the author of m in the
// same channel.
func (m *Message) SameAuthor(other *Message) bool {
	if m == nil || other == nil {
		return false
	}
	return m.ChannelID == other.ChannelID && m.AuthorID == other.AuthorID
}

// ContentEquals compares the message content to word ignoring case and
// surrounding whitespace. An empty word never matches.
func (m *Message) ContentEquals(word string) bool {
	if m == nil || word == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(m.Content), word)
}

// Args holds the argument values already resolved for one command
// invocation, keyed by argument ID.
type Args map[string]any

// Get returns the value stored for id and whether it exists.
func (a Args) Get(id string) (any, bool) {
	v, ok := a[id]
	return v, ok
}

// Clone returns a shallow copy of a.
func (a Args) Clone() Args {
	c := make(Args, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
