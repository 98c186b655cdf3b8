package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/argmesh/config"
	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/logging"
	"github.com/hupe1980/argmesh/model"
)

func testApp() *app {
	logCfg := logging.DefaultLoggerConfig()
	logCfg.Output = io.Discard
	return &app{cfg: config.DefaultConfig(), logger: logging.NewLogger(logCfg)}
}

func TestDemo_Order(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		"!order big 2 --delivery",
		"Berlin",
		"cheese",
		"pineapple",
		"ham",
		"stop",
		"!foo",
	}, "\n") + "\n")
	out := &bytes.Buffer{}

	require.NoError(t, runDemo(context.Background(), testApp(), nil, in, out))

	text := out.String()
	assert.Contains(t, text, "Which city should we deliver to?")
	assert.Contains(t, text, "`pineapple` doesn't work here.")
	assert.Contains(t, text, "order: city=Berlin delivery=true quantity=2 size=large toppings=[cheese ham]")
	assert.Contains(t, text, "Unknown command.")
}

func TestDemo_Cancel(t *testing.T) {
	in := strings.NewReader("!pizza\ncancel\n")
	out := &bytes.Buffer{}

	require.NoError(t, runDemo(context.Background(), testApp(), nil, in, out))
	assert.Contains(t, out.String(), "What size?")
	assert.Contains(t, out.String(), "Order cancelled.")
	assert.NotContains(t, out.String(), "order:")
}

func TestDemo_ModelCity(t *testing.T) {
	m := model.NewMockModel("mock")
	m.AddResponse("muenchen", "Munich")

	in := strings.NewReader("!order small --delivery --city=muenchen\nstop\nolives\nstop\n")
	out := &bytes.Buffer{}

	require.NoError(t, runDemo(context.Background(), testApp(), m, in, out))
	assert.Contains(t, out.String(), "order: city=Munich delivery=true quantity=1 size=small toppings=[olives]")
}

func TestDemo_PickupLimit(t *testing.T) {
	in := strings.NewReader("!order small 6\nolives\nstop\n")
	out := &bytes.Buffer{}

	require.NoError(t, runDemo(context.Background(), testApp(), nil, in, out))
	assert.Contains(t, out.String(), "Sorry, orders of more than 5 pizzas must be delivered.")
	assert.NotContains(t, out.String(), "Which city")
	assert.NotContains(t, out.String(), "order:")
}

func TestValidateOrder(t *testing.T) {
	assert.NoError(t, validateOrder(core.Args{"quantity": 6, "delivery": true}))
	assert.NoError(t, validateOrder(core.Args{"quantity": 5, "delivery": false}))
	assert.ErrorIs(t, validateOrder(core.Args{"quantity": 6, "delivery": false}), errPickupLimit)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "order: a=1 b=x", summarize("order", core.Args{"b": "x", "a": 1}))
}

func TestNewModel(t *testing.T) {
	m, err := newModel("")
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = newModel("llama")
	assert.Error(t, err)
}
