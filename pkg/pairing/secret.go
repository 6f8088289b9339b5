package pairing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/atvremote/atvremote-go/pkg/identity"
)

// ErrInvalidCode is returned when a user-entered pairing code is not
// exactly six hex characters.
var ErrInvalidCode = errors.New("pairing: code must be exactly 6 hex characters")

// CodeLength is the number of hex characters in a pairing code: a one-byte
// verification header followed by the two code bytes fed into the secret
// digest.
const CodeLength = 6

// ParsedCode splits a user-entered pairing code into its verification
// header and code bytes.
type ParsedCode struct {
	// Header is the first byte, used only to pick which of several
	// candidate codes the TV is displaying; never hashed.
	Header byte
	// CodeBytes are the last two bytes, the actual hash input.
	CodeBytes [2]byte
}

// ParseCode decodes a 6-hex-character pairing code into its header and
// code bytes.
func ParseCode(code string) (ParsedCode, error) {
	if len(code) != CodeLength {
		return ParsedCode{}, ErrInvalidCode
	}
	raw, err := hex.DecodeString(code)
	if err != nil || len(raw) != 3 {
		return ParsedCode{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	return ParsedCode{Header: raw[0], CodeBytes: [2]byte{raw[1], raw[2]}}, nil
}

// DeriveSecret computes the 32-byte digest sent as PairingSecret.secret:
//
//	SHA-256(client_modulus || client_exponent || server_modulus || server_exponent || code_bytes)
//
// and the verification header (the digest's first byte) the TV would use
// to select which displayed code matches. The header is informational only
// and is never transmitted.
func DeriveSecret(client, server identity.RsaPublicParams, code ParsedCode) (secret [32]byte, header byte) {
	h := sha256.New()
	h.Write(client.Modulus)
	h.Write(client.Exponent)
	h.Write(server.Modulus)
	h.Write(server.Exponent)
	h.Write(code.CodeBytes[:])
	sum := h.Sum(nil)
	copy(secret[:], sum)
	return secret, sum[0]
}

// TruncatedSecret returns the first 31 bytes of a full 32-byte secret. Some
// TV firmwares are reported to expect this shorter variant; it is never
// used automatically; callers opt in explicitly via
// Machine.WithTruncatedSecretFallback and the choice is always logged.
func TruncatedSecret(secret [32]byte) []byte {
	return secret[:31]
}
