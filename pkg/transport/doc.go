// Package transport dials mutually-authenticated TLS connections to the
// pairing and control ports of an Android TV remote endpoint, and adapts
// the raw byte stream to the length-prefixed frame model defined by
// pkg/wire.
//
// The pairing port accepts any server certificate (the TV's identity is
// self-signed and unknown before pairing) but captures the presented leaf
// certificate for use in secret derivation. The control-port configuration
// can pin a certificate (NewControlTLSConfig); without a pin it accepts and
// captures any server certificate, as the pairing port does.
package transport
