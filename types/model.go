package types

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/argmesh/core"
	"github.com/hupe1980/argmesh/model"
)

// NoMatch is the reply a model gives when the token cannot be normalised.
const NoMatch = "NONE"

const modelInstructionTemplate = `You normalise a single value typed by a user in a chat command.
%s
Reply with the normalised value only. If the input cannot be interpreted, reply with exactly %s.`

// ModelTypeOptions configures ModelType.
type ModelTypeOptions struct {
	// Parse converts the model reply into the final value. Defaults to
	// returning the trimmed reply text. A nil result means "cannot cast".
	Parse func(reply string) any
}

// ModelType returns a casting function that asks m to normalise the token
// following instruction, e.g. "Convert the input into an ISO 3166 country
// code." A NONE reply or an empty one means the token cannot be cast. Model
// errors are returned as unexpected failures.
func ModelType(m model.Model, instruction string, optFns ...func(o *ModelTypeOptions)) core.CastFunc {
	opts := ModelTypeOptions{Parse: func(reply string) any { return reply }}
	for _, fn := range optFns {
		fn(&opts)
	}
	system := fmt.Sprintf(modelInstructionTemplate, instruction, NoMatch)

	return func(ctx context.Context, token string, _ *core.Message, _ core.Args) (any, error) {
		if strings.TrimSpace(token) == "" {
			return nil, nil
		}
		resp, err := m.Generate(ctx, model.UserRequest(system, token))
		if err != nil {
			return nil, fmt.Errorf("model type (%s): %w", m.Info().Provider, err)
		}
		reply := strings.TrimSpace(resp.Text)
		if reply == "" || strings.EqualFold(reply, NoMatch) {
			return nil, nil
		}
		return opts.Parse(reply), nil
	}
}
