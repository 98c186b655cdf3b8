// Package session houses concrete implementations of core.PromptTracker.
// The interface itself lives in the core package so the prompt engine and
// the command dispatcher never depend on a concrete store.
//
// Add additional backends (Redis, a shared cache, etc.) in sub-packages
// without changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
