// Package orchestrator wires the definition loader, the collection document
// and the renderer registry into a single Generate call.
package orchestrator
