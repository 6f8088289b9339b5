// Package session supervises the single logical connection a client holds
// to one TV at a time: discovery, pairing, the control-port connection, and
// the reconnect policies between them. It publishes connection-state
// snapshots on a watch-style channel rather than callbacks, so more than
// one UI surface can observe the same state.
package session
