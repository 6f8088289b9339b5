// Package log provides structured protocol logging for the TV remote client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, pairing, control,
// session). It is separate from operational logging (slog) - protocol
// capture provides a complete machine-readable event trace for debugging.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog (events are emitted at
//	// slog.LevelDebug, so the handler's level must admit Debug)
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For a durable journal: write to a binary file
//	logger, _ := log.NewFileLogger("/var/log/atvremote/session.cbor")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: the size of every frame sent and received (FrameEvent)
//   - Pairing/Control: state-machine transitions (StateChangeEvent)
//   - Control: ping requests and key presses (ControlMsgEvent)
//
// The pairing machine emits a MessageEvent when it sends a truncated secret.
// Errors at any layer use ErrorEventData.
package log
