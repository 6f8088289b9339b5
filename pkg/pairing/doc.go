// Package pairing implements the four-step Android TV Remote Protocol v2
// pairing handshake run on the pairing port (6467): PairingRequest, Options,
// Configuration, and PairingSecret, plus the SHA-256 secret derivation that
// binds both peers' RSA public keys to a user-entered one-time code.
package pairing
