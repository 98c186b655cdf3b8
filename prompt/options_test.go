package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Defaults(t *testing.T) {
	s := Resolve()
	assert.Equal(t, DefaultRetries, s.Retries)
	assert.Equal(t, DefaultTime, s.Time)
	assert.Equal(t, DefaultCancelWord, s.CancelWord)
	assert.Equal(t, DefaultStopWord, s.StopWord)
	assert.False(t, s.Optional)
	assert.False(t, s.Infinite)
	assert.Zero(t, s.Limit)
	assert.True(t, s.Start.IsZero())
	assert.True(t, s.Ended.IsZero())
}

func TestResolve_LayerPrecedence(t *testing.T) {
	handler := &Options{Retries: Int(5), Time: Duration(time.Minute), Start: Literal("handler start"), Cancel: Literal("handler cancel")}
	command := &Options{Retries: Int(3), Start: Literal("command start")}
	argument := &Options{Retries: Int(0), Optional: Bool(true)}

	s := Resolve(handler, command, argument)
	assert.Equal(t, 0, s.Retries, "explicit zero in the argument layer overrides")
	assert.Equal(t, time.Minute, s.Time)
	assert.True(t, s.Optional)

	start, err := s.Start.Resolve(context.Background(), nil, nil, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "command start", start)

	cancel, err := s.Cancel.Resolve(context.Background(), nil, nil, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "handler cancel", cancel)
}

func TestResolve_NilLayersSkipped(t *testing.T) {
	s := Resolve(nil, &Options{StopWord: String("done")}, nil)
	assert.Equal(t, "done", s.StopWord)
	assert.Equal(t, DefaultCancelWord, s.CancelWord)
}

func TestResolve_Clamps(t *testing.T) {
	s := Resolve(&Options{Retries: Int(-2), Time: Duration(0), Limit: Int(-1)})
	assert.Equal(t, 0, s.Retries)
	assert.Equal(t, DefaultTime, s.Time)
	assert.Equal(t, 0, s.Limit)
}

func TestMerge_DoesNotMutateLayers(t *testing.T) {
	base := &Options{Retries: Int(1)}
	over := &Options{Retries: Int(4)}
	m := Merge(base, over)
	assert.Equal(t, 4, *m.Retries)
	assert.Equal(t, 1, *base.Retries)
}
