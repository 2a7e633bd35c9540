// Package endpoints manages the set of configured Ollama backends.
//
// It parses the multi-endpoint configuration string into an ordered
// registry of (url, credential) pairs, resolves credentials for outbound
// calls, and holds the single mutable piece of gateway state: the
// currently selected backend target.
package endpoints
