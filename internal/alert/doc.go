// Package alert implements the emergency-alert dispatcher using the actor pattern.
//
// The Dispatcher owns the registry of live WebSocket subscribers and the
// donor-to-connection bindings. A single goroutine consumes a command channel
// (no mutexes); per-connection write goroutines absorb slow clients, and a
// failed send evicts only that connection without aborting the fan-out.
package alert
