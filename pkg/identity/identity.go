package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// KeyBits is the RSA modulus size used for the client identity.
const KeyBits = 2048

// Validity is how long the self-signed certificate remains valid. Chosen
// well beyond any plausible device lifetime so the client never needs to
// handle its own identity's expiry.
const Validity = 10 * 365 * 24 * time.Hour

// Serial is the fixed certificate serial number. A single client identity
// never issues more than one certificate, so a stable constant (rather than
// a random serial) keeps repeated identity generation deterministic aside
// from the key material itself.
var Serial = big.NewInt(1000)

// ErrNoCertificate is returned when a ClientIdentity has no certificate
// material attached.
var ErrNoCertificate = errors.New("identity: no certificate present")

// ClientIdentity is the RSA key pair and self-signed certificate that
// identifies this installation to every TV it pairs with. It must remain
// stable across process restarts: the TV binds its trust to this specific
// key pair during pairing.
type ClientIdentity struct {
	PrivateKey  *rsa.PrivateKey
	Certificate *x509.Certificate
}

// Generate creates a fresh RSA-2048 key pair and a self-signed certificate
// with common name label, valid for Validity starting now.
func Generate(label string) (*ClientIdentity, error) {
	key, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: Serial,
		Subject: pkix.Name{
			CommonName: label,
		},
		DNSNames:              []string{label},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(Validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("identity: create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("identity: parse generated certificate: %w", err)
	}

	return &ClientIdentity{PrivateKey: key, Certificate: cert}, nil
}

// TLSCertificate adapts the identity to a tls.Certificate suitable for
// tls.Config.Certificates.
func (id *ClientIdentity) TLSCertificate() (tls.Certificate, error) {
	if id.Certificate == nil {
		return tls.Certificate{}, ErrNoCertificate
	}
	return tls.Certificate{
		Certificate: [][]byte{id.Certificate.Raw},
		PrivateKey:  id.PrivateKey,
		Leaf:        id.Certificate,
	}, nil
}
