// Package entities provides the core domain types for the SDK.
// These are the payload shapes that cross the runtime boundary (agent
// configuration documents, memory records, emotion vectors, state
// snapshots) and must remain stable: they define the JSON side of the
// ABI contract with the agent runtime.
package entities
