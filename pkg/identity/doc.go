// Package identity manages the client's persistent RSA key pair and
// self-signed certificate, and extracts RSA public-key parameters from any
// X.509 certificate (ours or the paired TV's) for use in pairing-secret
// derivation.
package identity
