// Package console implements core.Transport over a line oriented reader and
// writer, typically a terminal. Every input line is one message authored by
// the console user; prompt text is styled with lipgloss when the output
// supports it.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/argmesh/core"
)

// Options configures a Transport.
type Options struct {
	In        io.Reader // Defaults to os.Stdin
	Out       io.Writer // Defaults to os.Stdout
	ChannelID string    // Defaults to "console"
	AuthorID  string    // Author of every input line; defaults to "user"
	BotID     string    // Author of sent prompts; defaults to "argmesh"
}

// Transport is a console backed core.Transport. It is safe for concurrent
// use, although a terminal conversation is inherently sequential.
type Transport struct {
	out       io.Writer
	channelID string
	authorID  string
	botID     string

	scanner   *bufio.Scanner
	startOnce sync.Once
	lines     chan line
	writeMu   sync.Mutex

	promptStyle lipgloss.Style
	echoStyle   lipgloss.Style
}

type line struct {
	text string
	err  error
}

var _ core.Transport = (*Transport)(nil)

// New creates a console transport.
func New(optFns ...func(o *Options)) *Transport {
	opts := Options{
		In:        os.Stdin,
		Out:       os.Stdout,
		ChannelID: "console",
		AuthorID:  "user",
		BotID:     "argmesh",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := lipgloss.NewRenderer(opts.Out)
	return &Transport{
		out:       opts.Out,
		channelID: opts.ChannelID,
		authorID:  opts.AuthorID,
		botID:     opts.BotID,
		scanner:   bufio.NewScanner(opts.In),
		lines:     make(chan line),
		promptStyle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		echoStyle: r.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true),
	}
}

// start launches the single reader goroutine. Lines are handed over one at a
// time so a line is never consumed by an AwaitReply that already timed out.
func (t *Transport) start() {
	t.startOnce.Do(func() {
		go func() {
			for t.scanner.Scan() {
				t.lines <- line{text: t.scanner.Text()}
			}
			err := t.scanner.Err()
			if err == nil {
				err = io.EOF
			}
			for {
				t.lines <- line{err: err}
			}
		}()
	})
}

// Send writes text, one styled line per text line.
func (t *Transport) Send(_ context.Context, origin *core.Message, text string) (*core.Message, error) {
	var sb strings.Builder
	for _, l := range strings.Split(text, "\n") {
		sb.WriteString(t.promptStyle.Render(l))
		sb.WriteString("\n")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := io.WriteString(t.out, sb.String()); err != nil {
		return nil, fmt.Errorf("console write: %w", err)
	}
	return core.NewMessage(channelOf(origin, t.channelID), t.botID, text), nil
}

// Notice writes informational text that is not part of a prompt.
func (t *Transport) Notice(text string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := io.WriteString(t.out, t.echoStyle.Render(text)+"\n")
	return err
}

// ReadMessage blocks until the next input line and returns it as a message
// from the console user. It returns io.EOF when input is exhausted.
func (t *Transport) ReadMessage(ctx context.Context) (*core.Message, error) {
	t.start()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case l := <-t.lines:
		if l.err != nil {
			return nil, l.err
		}
		return core.NewMessage(t.channelID, t.authorID, l.text), nil
	}
}

// AwaitReply waits up to window for an input line accepted by filter.
func (t *Transport) AwaitReply(ctx context.Context, origin *core.Message, filter func(*core.Message) bool, window time.Duration) (*core.Message, error) {
	t.start()
	timer := time.NewTimer(window)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, core.ErrReplyTimeout
		case l := <-t.lines:
			if l.err != nil {
				if errors.Is(l.err, io.EOF) {
					return nil, fmt.Errorf("console input closed: %w", l.err)
				}
				return nil, fmt.Errorf("console read: %w", l.err)
			}
			msg := core.NewMessage(channelOf(origin, t.channelID), t.authorID, l.text)
			if filter == nil || filter(msg) {
				return msg, nil
			}
		}
	}
}

func channelOf(origin *core.Message, fallback string) string {
	if origin != nil && origin.ChannelID != "" {
		return origin.ChannelID
	}
	return fallback
}
