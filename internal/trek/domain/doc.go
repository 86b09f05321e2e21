// Package domain holds the trek engine's core types: roles, world state,
// actions, phases, messages, and resolver outcomes.
//
// Types here are plain data with small invariant-preserving methods. All
// orchestration, I/O, and simulation logic lives in sibling packages.
package domain
