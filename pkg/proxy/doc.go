// Package proxy provides request parsing and response shaping shared by
// the gateway's HTTP handlers.
package proxy
