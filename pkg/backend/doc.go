// Package backend issues authenticated HTTP calls to the currently
// selected Ollama instance.
//
// Every call resolves the active target and its configured credential at
// dispatch time, so a target change takes effect for subsequently issued
// calls without affecting requests already in flight.
package backend
