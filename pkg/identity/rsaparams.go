package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotRSA is returned when a certificate's public key is not RSA.
var ErrNotRSA = errors.New("identity: certificate does not carry an RSA public key")

// RsaPublicParams is the pair of big-endian byte strings fed into the
// pairing-secret digest: the RSA modulus (sign byte stripped) and the
// public exponent.
type RsaPublicParams struct {
	Modulus  []byte
	Exponent []byte
}

// ExtractRsaPublicParams parses the RSA public key out of a certificate's
// DER-encoded SubjectPublicKeyInfo and normalizes the modulus by stripping a
// single leading 0x00 ASN.1 sign byte, if present.
func ExtractRsaPublicParams(der []byte) (RsaPublicParams, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return RsaPublicParams{}, fmt.Errorf("identity: parse certificate: %w", err)
	}
	return RsaPublicParamsFromCert(cert)
}

// RsaPublicParamsFromCert extracts RSA public parameters from an already
// parsed certificate.
func RsaPublicParamsFromCert(cert *x509.Certificate) (RsaPublicParams, error) {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return RsaPublicParams{}, ErrNotRSA
	}
	return RsaPublicParams{
		Modulus:  stripSignByte(pub.N.Bytes()),
		Exponent: encodeExponent(pub.E),
	}, nil
}

// stripSignByte removes a single leading 0x00 from a big-endian integer
// encoding, as produced for a positive big.Int whose high bit is set.
func stripSignByte(b []byte) []byte {
	if len(b) > 1 && b[0] == 0x00 {
		return b[1:]
	}
	return b
}

// encodeExponent renders the public exponent as a minimal big-endian byte
// string (typically 3 bytes for the common value 65537).
func encodeExponent(e int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(e))
	i := 0
	for i < len(buf)-1 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}
