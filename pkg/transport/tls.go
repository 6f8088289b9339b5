package transport

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// CapturedCert receives the DER bytes of the peer leaf certificate seen
// during the handshake. It is populated even though verification is
// skipped, since pairing needs the TV's public key before any trust has
// been established.
type CapturedCert struct {
	DER []byte
}

// verifyCapture returns a VerifyPeerCertificate callback that records the
// peer's leaf certificate without rejecting it.
func verifyCapture(capture *CapturedCert) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("transport: peer presented no certificate")
		}
		capture.DER = append([]byte(nil), rawCerts[0]...)
		return nil
	}
}

// NewPairingTLSConfig builds the TLS client configuration used for the
// pairing port: any server certificate is accepted (the TV is self-signed
// and not yet trusted) but the leaf certificate is captured into capture
// for use in secret derivation.
func NewPairingTLSConfig(clientCert tls.Certificate, capture *CapturedCert) *tls.Config {
	return &tls.Config{
		MinVersion:            tls.VersionTLS12,
		Certificates:          []tls.Certificate{clientCert},
		InsecureSkipVerify:    true,
		VerifyPeerCertificate: verifyCapture(capture),
	}
}

// NewControlTLSConfig builds the TLS client configuration used for the
// control port. If pinned is non-nil, the presented leaf certificate must
// match it exactly (the TV that completed pairing); otherwise any
// certificate is accepted and captured, mirroring the pairing port's
// permissive-trust policy for a first control-port connection before a
// pin exists.
func NewControlTLSConfig(clientCert tls.Certificate, pinned *x509.Certificate, capture *CapturedCert) *tls.Config {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		Certificates:       []tls.Certificate{clientCert},
		InsecureSkipVerify: true,
	}
	if pinned != nil {
		cfg.VerifyPeerCertificate = verifyPinned(pinned)
	} else {
		cfg.VerifyPeerCertificate = verifyCapture(capture)
	}
	return cfg
}

func verifyPinned(pinned *x509.Certificate) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("transport: peer presented no certificate")
		}
		if !bytes.Equal(rawCerts[0], pinned.Raw) {
			return fmt.Errorf("transport: peer certificate does not match the pinned pairing certificate")
		}
		return nil
	}
}
