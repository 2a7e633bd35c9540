// Package handlers maps the gateway's inbound HTTP surface onto backend
// calls and relay operations.
package handlers
