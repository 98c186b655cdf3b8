// Package core provides the foundational domain types and collaborator
// interfaces shared by every argmesh package. It defines:
//
//   - Message (the triggering command message and every prompt reply)
//   - Args (argument values already resolved for one command invocation)
//   - CastFunc (the signature of every casting function)
//   - Transport, PromptTracker and TypeResolver (external collaborators)
//   - The error taxonomy (cancellation, reply timeout, active prompt)
//
// The package intentionally keeps implementation concerns (casting rules,
// the prompt loop, concrete transports) out of scope, exposing small
// interfaces so that chat platforms, consoles and tests can plug in their own
// infrastructure.
package core
