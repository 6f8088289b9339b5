// Package persistence stores the one piece of durable runtime state this
// client keeps beyond the identity itself: the IPv4 address of the last TV
// it successfully configured, so a future process start can reconnect
// without re-running discovery. Identity storage is handled separately by
// the identity package's FileStore.
package persistence
