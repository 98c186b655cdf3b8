package anthropic

import (
	"testing"

	"github.com/hupe1980/argmesh/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessages_SkipsEmptyTurns(t *testing.T) {
	msgs := buildMessages([]model.Turn{
		{Role: model.RoleUser, Text: "muenchen"},
		{Role: model.RoleAssistant, Text: ""},
		{Role: model.RoleAssistant, Text: "Munich"},
	})
	assert.Len(t, msgs, 2)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "test" })
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.NotEmpty(t, info.Name)
}
