// Package transport groups core.Transport implementations. Sub-packages
// connect the prompt engine to concrete conversation surfaces; the console
// package drives prompts over a terminal.
package transport
