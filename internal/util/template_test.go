package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_FastPath(t *testing.T) {
	out, err := RenderTemplate("plain <b>text</b>", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain <b>text</b>", out)
}

func TestRenderTemplate_Funcs(t *testing.T) {
	data := struct {
		Word    string
		Retries int
	}{Word: "huge", Retries: 2}

	out, err := RenderTemplate(`{{quote .Word}} is not a size, {{.Retries}} {{plural .Retries "try" "tries"}} used`, data)
	require.NoError(t, err)
	assert.Equal(t, "`huge` is not a size, 2 tries used", out)

	out, err = RenderTemplate(`{{default "nothing" .Word | upper}}`, struct{ Word string }{})
	require.NoError(t, err)
	assert.Equal(t, "NOTHING", out)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{ .Word ", nil)
	assert.Error(t, err)
}
