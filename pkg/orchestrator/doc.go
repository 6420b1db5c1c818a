// Package orchestrator wires the definition loader, schema builder, store and
// renderer registry behind a single entry point for callers that do not need
// to assemble the pipeline themselves.
package orchestrator
