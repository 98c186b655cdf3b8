package testutil

import (
	"time"

	"github.com/hupe1980/argmesh/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Channel("general").Author("alice").Content("!order large").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id        string
	channelID string
	authorID  string
	content   string
	timestamp time.Time
	metadata  map[string]string
}

// NewMessageBuilder creates a builder with channel "general" and author "user".
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{channelID: "general", authorID: "user"}
}

// ID overrides the auto-generated message ID (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// Channel sets the channel (chainable).
func (b *MessageBuilder) Channel(c string) *MessageBuilder { b.channelID = c; return b }

// Author sets the author (chainable).
func (b *MessageBuilder) Author(a string) *MessageBuilder { b.authorID = a; return b }

// Content sets the message text (chainable).
func (b *MessageBuilder) Content(c string) *MessageBuilder { b.content = c; return b }

// At sets a fixed timestamp (chainable).
func (b *MessageBuilder) At(ts time.Time) *MessageBuilder { b.timestamp = ts; return b }

// Meta adds a metadata key/value pair (chainable).
func (b *MessageBuilder) Meta(k, v string) *MessageBuilder {
	if b.metadata == nil {
		b.metadata = map[string]string{}
	}
	b.metadata[k] = v
	return b
}

// Build constructs the message.
func (b *MessageBuilder) Build() *core.Message {
	m := core.NewMessage(b.channelID, b.authorID, b.content)
	if b.id != "" {
		m.ID = b.id
	}
	if !b.timestamp.IsZero() {
		m.Timestamp = b.timestamp
	}
	if len(b.metadata) > 0 {
		m.Metadata = make(map[string]string, len(b.metadata))
		for k, v := range b.metadata {
			m.Metadata[k] = v
		}
	}
	return m
}
