package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/argmesh/core"
)

func newConsole(input string) (*Transport, *bytes.Buffer) {
	out := &bytes.Buffer{}
	tr := New(func(o *Options) {
		o.In = strings.NewReader(input)
		o.Out = out
		o.AuthorID = "alice"
	})
	return tr, out
}

func TestConsole_ReadAndReply(t *testing.T) {
	tr, out := newConsole("!order\nlarge\n")
	ctx := context.Background()

	msg, err := tr.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "!order", msg.Content)
	assert.Equal(t, "console", msg.ChannelID)
	assert.Equal(t, "alice", msg.AuthorID)

	sent, err := tr.Send(ctx, msg, "Which size?\nsmall or large")
	require.NoError(t, err)
	assert.Equal(t, "argmesh", sent.AuthorID)
	assert.Equal(t, "Which size?\nsmall or large\n", out.String())

	reply, err := tr.AwaitReply(ctx, msg, msg.SameAuthor, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "large", reply.Content)

	_, err = tr.AwaitReply(ctx, msg, msg.SameAuthor, time.Second)
	require.ErrorIs(t, err, io.EOF)
}

func TestConsole_Timeout(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	tr := New(func(o *Options) {
		o.In = r
		o.Out = io.Discard
	})
	origin := core.NewMessage("console", "user", "!order")

	_, err := tr.AwaitReply(context.Background(), origin, nil, 10*time.Millisecond)
	require.ErrorIs(t, err, core.ErrReplyTimeout)

	go func() { _, _ = io.WriteString(w, "late\n") }()
	reply, err := tr.AwaitReply(context.Background(), origin, nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "late", reply.Content, "a line arriving after a timeout is not lost")
}

func TestConsole_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	tr := New(func(o *Options) {
		o.In = r
		o.Out = io.Discard
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.AwaitReply(ctx, core.NewMessage("console", "user", ""), nil, time.Second)
	require.ErrorIs(t, err, context.Canceled)

	_, err = tr.ReadMessage(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConsole_FilterSkipsLines(t *testing.T) {
	tr, _ := newConsole("skip me\nkeep\n")
	origin := core.NewMessage("console", "alice", "!x")
	reply, err := tr.AwaitReply(context.Background(), origin, func(m *core.Message) bool {
		return m.Content != "skip me"
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "keep", reply.Content)
}

func TestConsole_Notice(t *testing.T) {
	tr, out := newConsole("")
	require.NoError(t, tr.Notice("order placed"))
	assert.Equal(t, "order placed\n", out.String())
}
