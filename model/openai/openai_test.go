package openai

import (
	"testing"

	"github.com/hupe1980/argmesh/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessages_PrependsInstructions(t *testing.T) {
	msgs := buildMessages(model.Request{
		Instructions: "normalize city names",
		Turns:        []model.Turn{{Role: model.RoleUser, Text: "muenchen"}},
	})
	assert.Len(t, msgs, 2)

	msgs = buildMessages(model.UserRequest("", "muenchen"))
	assert.Len(t, msgs, 1)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.Model = "gpt-test" })
	assert.Equal(t, model.Info{Name: "gpt-test", Provider: "openai"}, m.Info())
}
