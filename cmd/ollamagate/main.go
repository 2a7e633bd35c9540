// Ollamagate is a credential-gated HTTP gateway for Ollama instances.
//
// It multiplexes requests across one or more configured backends, attaches
// the right bearer credential to every outbound call, and relays
// long-running model downloads to the caller as an incrementally flushed
// stream of JSON status lines.
//
// Usage:
//
//	# Start with defaults (single local backend)
//	ollamagate run
//
//	# Start against several credentialed backends
//	OLLAMAGATE_ENDPOINTS="http://a:11434_tok1,http://b:11434" ollamagate run
//
//	# Start with a configuration file
//	ollamagate run --config /etc/ollamagate/config.yaml
//
//	# Show version information
//	ollamagate version
package main

func main() {
	Execute()
}
