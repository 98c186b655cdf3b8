package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_Responses(t *testing.T) {
	m := NewMockModel("test")
	m.AddResponse("muenchen", "Munich")

	resp, err := m.Generate(context.Background(), UserRequest("normalize", "  muenchen "))
	require.NoError(t, err)
	assert.Equal(t, "Munich", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Generate(context.Background(), UserRequest("normalize", "atlantis"))
	require.NoError(t, err)
	assert.Equal(t, "NONE", resp.Text)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "normalize", reqs[0].Instructions)
	assert.Equal(t, RoleUser, reqs[0].Turns[0].Role)
	assert.Equal(t, Info{Name: "test", Provider: "mock"}, m.Info())
}

func TestMockModel_Errors(t *testing.T) {
	m := NewMockModel("test")

	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Generate(ctx, UserRequest("", "x"))
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("boom")
	m.FailWith(boom)
	_, err = m.Generate(context.Background(), UserRequest("", "x"))
	assert.ErrorIs(t, err, boom)
}
