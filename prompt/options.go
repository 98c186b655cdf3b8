package prompt

import "time"

// Defaults applied to fields no options layer sets.
const (
	DefaultRetries    = 1
	DefaultTime       = 30 * time.Second
	DefaultCancelWord = "cancel"
	DefaultStopWord   = "stop"
)

// Options is one layer of prompt configuration. All scalar fields are
// pointers so that absence can be distinguished from zero values when layers
// are merged; unset Text fields are zero Text values.
type Options struct {
	Retries    *int           // Retry turns allowed after the first failed reply
	Time       *time.Duration // Reply window per turn
	CancelWord *string        // Reply that cancels the whole command
	StopWord   *string        // Reply that closes an infinite collection
	Optional   *bool          // Empty input resolves to the default without prompting
	Infinite   *bool          // Collect a sequence of values
	Limit      *int           // Maximum values collected in infinite mode; 0 means unbounded

	Start   Text // Sent on the first turn
	Retry   Text // Sent on every retry turn
	Timeout Text // Sent when the reply window elapses
	Ended   Text // Sent when the retry budget is exhausted
	Cancel  Text // Sent when the user cancels
}

// Settings are fully resolved prompt options.
type Settings struct {
	Retries    int
	Time       time.Duration
	CancelWord string
	StopWord   string
	Optional   bool
	Infinite   bool
	Limit      int

	Start   Text
	Retry   Text
	Timeout Text
	Ended   Text
	Cancel  Text
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Duration returns a pointer to d.
func Duration(d time.Duration) *time.Duration { return &d }

// DefaultOptions returns the baseline handler-wide options.
func DefaultOptions() *Options {
	return &Options{
		Retries:    Int(DefaultRetries),
		Time:       Duration(DefaultTime),
		CancelWord: String(DefaultCancelWord),
		StopWord:   String(DefaultStopWord),
		Optional:   Bool(false),
		Infinite:   Bool(false),
		Limit:      Int(0),
	}
}

// Merge shallow-merges layers in increasing precedence: a field set in a
// later layer overrides the same field of every earlier one. Nil layers are
// skipped.
func Merge(layers ...*Options) *Options {
	out := &Options{}
	for _, l := range layers {
		if l == nil {
			continue
		}
		if l.Retries != nil {
			out.Retries = l.Retries
		}
		if l.Time != nil {
			out.Time = l.Time
		}
		if l.CancelWord != nil {
			out.CancelWord = l.CancelWord
		}
		if l.StopWord != nil {
			out.StopWord = l.StopWord
		}
		if l.Optional != nil {
			out.Optional = l.Optional
		}
		if l.Infinite != nil {
			out.Infinite = l.Infinite
		}
		if l.Limit != nil {
			out.Limit = l.Limit
		}
		mergeText(&out.Start, l.Start)
		mergeText(&out.Retry, l.Retry)
		mergeText(&out.Timeout, l.Timeout)
		mergeText(&out.Ended, l.Ended)
		mergeText(&out.Cancel, l.Cancel)
	}
	return out
}

func mergeText(dst *Text, src Text) {
	if !src.IsZero() {
		*dst = src
	}
}

// Resolve merges layers on top of DefaultOptions and returns concrete settings.
func Resolve(layers ...*Options) Settings {
	m := Merge(append([]*Options{DefaultOptions()}, layers...)...)
	s := Settings{
		Retries:    *m.Retries,
		Time:       *m.Time,
		CancelWord: *m.CancelWord,
		StopWord:   *m.StopWord,
		Optional:   *m.Optional,
		Infinite:   *m.Infinite,
		Limit:      *m.Limit,
		Start:      m.Start,
		Retry:      m.Retry,
		Timeout:    m.Timeout,
		Ended:      m.Ended,
		Cancel:     m.Cancel,
	}
	if s.Retries < 0 {
		s.Retries = 0
	}
	if s.Time <= 0 {
		s.Time = DefaultTime
	}
	if s.Limit < 0 {
		s.Limit = 0
	}
	return s
}
