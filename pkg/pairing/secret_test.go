package pairing

import (
	"crypto/sha256"
	"testing"

	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodeSplitsHeaderAndCodeBytes(t *testing.T) {
	parsed, err := ParseCode("1ABCDE")
	require.NoError(t, err)
	assert.Equal(t, byte(0x1A), parsed.Header)
	assert.Equal(t, [2]byte{0xBC, 0xDE}, parsed.CodeBytes)
}

func TestParseCodeRejectsWrongLength(t *testing.T) {
	for _, code := range []string{"", "ABCD", "ABCDEF1"} {
		_, err := ParseCode(code)
		assert.Errorf(t, err, "ParseCode(%q)", code)
	}
}

func TestParseCodeRejectsNonHex(t *testing.T) {
	_, err := ParseCode("ZZZZZZ")
	assert.Error(t, err)
}

func TestDeriveSecretMatchesManualDigest(t *testing.T) {
	client := identity.RsaPublicParams{Modulus: []byte{0x01, 0x02, 0x03}, Exponent: []byte{0x01, 0x00, 0x01}}
	server := identity.RsaPublicParams{Modulus: []byte{0x04, 0x05, 0x06}, Exponent: []byte{0x01, 0x00, 0x01}}
	code, err := ParseCode("001234")
	require.NoError(t, err)

	secret, header := DeriveSecret(client, server, code)

	h := sha256.New()
	h.Write(client.Modulus)
	h.Write(client.Exponent)
	h.Write(server.Modulus)
	h.Write(server.Exponent)
	h.Write(code.CodeBytes[:])
	want := h.Sum(nil)

	assert.Equal(t, want, secret[:])
	assert.Equal(t, want[0], header)
}

func TestDeriveSecretIsDeterministic(t *testing.T) {
	client := identity.RsaPublicParams{Modulus: []byte{0xAA}, Exponent: []byte{0x01, 0x00, 0x01}}
	server := identity.RsaPublicParams{Modulus: []byte{0xBB}, Exponent: []byte{0x01, 0x00, 0x01}}
	code, err := ParseCode("5566AB")
	require.NoError(t, err)

	s1, h1 := DeriveSecret(client, server, code)
	s2, h2 := DeriveSecret(client, server, code)
	assert.Equal(t, s1, s2)
	assert.Equal(t, h1, h2)
}

func TestDeriveSecretChangesWithCode(t *testing.T) {
	client := identity.RsaPublicParams{Modulus: []byte{0xAA}, Exponent: []byte{0x01, 0x00, 0x01}}
	server := identity.RsaPublicParams{Modulus: []byte{0xBB}, Exponent: []byte{0x01, 0x00, 0x01}}
	codeA, err := ParseCode("000001")
	require.NoError(t, err)
	codeB, err := ParseCode("000002")
	require.NoError(t, err)

	secretA, _ := DeriveSecret(client, server, codeA)
	secretB, _ := DeriveSecret(client, server, codeB)
	assert.NotEqual(t, secretA, secretB)
}

func TestTruncatedSecretDropsLastByte(t *testing.T) {
	var full [32]byte
	for i := range full {
		full[i] = byte(i)
	}
	trunc := TruncatedSecret(full)
	require.Len(t, trunc, 31)
	assert.Equal(t, full[:31], trunc)
}
