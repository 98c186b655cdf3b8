package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Role of a conversation turn sent to a model.
type Role string

const (
	// RoleUser is input written by the end user.
	RoleUser Role = "user"
	// RoleAssistant is prior model output.
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation passed to a model.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request captures the normalized model input.
type Request struct {
	Instructions string `json:"instructions"` // System prompt
	Turns        []Turn `json:"turns"`
}

// UserRequest is a convenience constructor for a single user turn.
func UserRequest(instructions, text string) Request {
	return Request{Instructions: instructions, Turns: []Turn{{Role: RoleUser, Text: text}}}
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final model output.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required to consult a language model.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Responses are keyed by the text of the last turn.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	requests  []Request
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock"}, responses: map[string]string{}}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model. Unknown prompts yield "NONE".
func (m *MockModel) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return Response{}, m.err
	}
	if len(req.Turns) == 0 {
		return Response{}, fmt.Errorf("no turns provided")
	}
	input := strings.TrimSpace(req.Turns[len(req.Turns)-1].Text)
	text, ok := m.responses[input]
	if !ok {
		text = "NONE"
	}
	return Response{Text: text, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
