// Callisto is an endpoint agent that watches sensitive filesystem paths
// against a reloadable policy document.
//
// It periodically reloads a YAML watch-items document, keeps an immutable
// snapshot of the compiled policy set, authorizes file events against the
// most specific matching policy, and records violations to a local event
// log.
//
// Usage:
//
//	# Start the agent with default configuration
//	callisto run
//
//	# Start with custom configuration file
//	callisto run --config /etc/callisto/config.yaml
//
//	# Validate a watch-items document without starting the agent
//	callisto validate --file watchitems.yaml
//
//	# Show version information
//	callisto version
package main

func main() {
	Execute()
}
