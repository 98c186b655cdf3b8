// Package model defines the provider‑agnostic abstraction used by argmesh to
// consult language models, plus a MockModel for tests.
//
// Core goals:
//   - A single non‑streaming Generate call returning plain text
//   - Request/response shapes minimal and transport independent
//   - Lightweight mocking for tests (MockModel)
//
// Providers (model/anthropic, model/openai) implement Model so that the
// model-backed named types in package types stay decoupled from vendor SDKs.
package model
