package endpoints

import "strings"

// DefaultEndpoint is the backend used when no endpoint configuration is provided.
const DefaultEndpoint = "http://localhost:11434"

// Endpoint is a single configured backend: a base URL and an optional
// bearer credential. Credential is the empty string when none is configured.
type Endpoint struct {
	URL        string
	Credential string
}

// Registry is an ordered, immutable list of configured endpoints.
// URL uniqueness is not enforced; credential lookup returns the first match.
type Registry struct {
	entries []Endpoint
}

// Parse builds a Registry from the raw configuration string.
//
// The grammar is `entry (',' entry)*` with `entry := url ('_' credential)?`.
// Entries are trimmed of surrounding whitespace and empty entries are
// discarded. An entry's first underscore separates url from credential; a
// present separator with an empty suffix yields no credential. An empty or
// blank raw string falls back to a single DefaultEndpoint entry with no
// credential.
func Parse(raw string) *Registry {
	var entries []Endpoint

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		url, credential, found := strings.Cut(part, "_")
		url = strings.TrimSpace(url)
		credential = strings.TrimSpace(credential)
		if !found {
			credential = ""
		}
		if url == "" {
			continue
		}

		entries = append(entries, Endpoint{URL: url, Credential: credential})
	}

	if len(entries) == 0 {
		entries = []Endpoint{{URL: DefaultEndpoint}}
	}

	return &Registry{entries: entries}
}

// URLs returns the configured urls in input order, without credentials.
// The result is safe for public enumeration.
func (r *Registry) URLs() []string {
	urls := make([]string, len(r.entries))
	for i, e := range r.entries {
		urls[i] = e.URL
	}
	return urls
}

// CredentialFor returns the credential configured for the given url.
// If the url appears multiple times the first entry wins; if the url is
// not configured the empty string is returned.
func (r *Registry) CredentialFor(url string) string {
	for _, e := range r.entries {
		if e.URL == url {
			return e.Credential
		}
	}
	return ""
}

// Len returns the number of configured endpoints.
func (r *Registry) Len() int {
	return len(r.entries)
}
