package wire

import (
	"bytes"
	"testing"
)

func TestRemoteKeyInjectEncoding(t *testing.T) {
	m := RemoteMessage{KeyInject: &RemoteKeyInject{Keycode: 23, Direction: DirectionDown}}
	got := m.Encode()
	want := []byte{0x08, 0x17, 0x10, 0x01}
	// The outer message wraps this in a length-delimited field 10; strip
	// the tag+length prefix before comparing against the literal
	// inner-message vector.
	if len(got) < 2 {
		t.Fatalf("encoded message too short: %x", got)
	}
	inner := got[2:]
	if !bytes.Equal(inner, want) {
		t.Errorf("RemoteKeyInject inner bytes = %x, want %x", inner, want)
	}
}

func TestPairingSecretEncoding(t *testing.T) {
	m := NewOuterMessage()
	m.Secret = &PairingSecret{Secret: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	got := m.Encode()

	// field 40 -> tag 0xC2 0x02, length-delimited wrapper around field 1.
	idx := bytes.Index(got, []byte{0xC2, 0x02})
	if idx < 0 {
		t.Fatalf("field 40 tag not found in %x", got)
	}
	rest := got[idx+2:]
	want := []byte{0x0A, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}
	if len(rest) < len(want)+1 {
		t.Fatalf("not enough bytes after field 40 tag: %x", rest)
	}
	// rest[0] is the outer length of the PairingSecret submessage; the
	// inner bytes are exactly the expected literal vector.
	inner := rest[1:]
	if !bytes.Equal(inner[:len(want)], want) {
		t.Errorf("PairingSecret inner bytes = %x, want %x", inner[:len(want)], want)
	}
}

func TestOuterMessagePairingRequestPrefix(t *testing.T) {
	m := NewOuterMessage()
	m.PairingRequest = &PairingRequest{ClientName: "atvremote"}
	got := m.Encode()

	wantPrefix := []byte{0x08, 0x02, 0x10, 0xC8, 0x01, 0x52}
	if len(got) < len(wantPrefix) {
		t.Fatalf("encoded message too short: %x", got)
	}
	if !bytes.Equal(got[:len(wantPrefix)], wantPrefix) {
		t.Errorf("prefix = %x, want %x", got[:len(wantPrefix)], wantPrefix)
	}
}

func TestOuterMessageRoundTrip(t *testing.T) {
	m := NewOuterMessage()
	m.Options = &Options{
		InputEncodings: []ProtoEncoding{{Type: 3, SymbolLength: 6}},
		PreferredRole:  1,
	}
	encoded := m.Encode()

	decoded, err := DecodeOuterMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeOuterMessage: %v", err)
	}
	if decoded.ProtocolVersion != 2 || decoded.Status != 200 {
		t.Errorf("prefix mismatch: version=%d status=%d", decoded.ProtocolVersion, decoded.Status)
	}
	if decoded.Options == nil || len(decoded.Options.InputEncodings) != 1 {
		t.Fatalf("Options not decoded: %+v", decoded.Options)
	}
	enc := decoded.Options.InputEncodings[0]
	if enc.Type != 3 || enc.SymbolLength != 6 {
		t.Errorf("InputEncodings[0] = %+v, want Type=3 SymbolLength=6", enc)
	}
	if decoded.Options.PreferredRole != 1 {
		t.Errorf("PreferredRole = %d, want 1", decoded.Options.PreferredRole)
	}
}

func TestOuterMessageSkipsUnknownFields(t *testing.T) {
	m := NewOuterMessage()
	encoded := m.Encode()
	// Append an unknown varint field (field number 99) before decoding.
	encoded = AppendVarintField(encoded, 99, 12345)

	decoded, err := DecodeOuterMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeOuterMessage with unknown field: %v", err)
	}
	if decoded.ProtocolVersion != 2 {
		t.Errorf("known fields must still decode, got version=%d", decoded.ProtocolVersion)
	}
}

func TestPingRequestResponseRoundTrip(t *testing.T) {
	id := int64(42)
	req := RemoteMessage{PingRequest: &id}
	encoded := req.Encode()

	decoded, err := DecodeRemoteMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeRemoteMessage: %v", err)
	}
	if decoded.PingRequest == nil || *decoded.PingRequest != 42 {
		t.Fatalf("PingRequest = %v, want 42", decoded.PingRequest)
	}

	resp := RemoteMessage{PingResponse: decoded.PingRequest}
	respEncoded := resp.Encode()
	wantTagPrefix := []byte{0x4A}
	if !bytes.Equal(respEncoded[:1], wantTagPrefix) {
		t.Errorf("ping_response tag = %x, want %x", respEncoded[:1], wantTagPrefix)
	}

	decodedResp, err := DecodeRemoteMessage(respEncoded)
	if err != nil {
		t.Fatalf("DecodeRemoteMessage(response): %v", err)
	}
	if decodedResp.PingResponse == nil || *decodedResp.PingResponse != 42 {
		t.Fatalf("echoed ping id = %v, want 42", decodedResp.PingResponse)
	}
}

func TestRemoteConfigureAckRoundTrip(t *testing.T) {
	cfg := RemoteMessage{ConfigureAck: &RemoteConfigure{Code1: 622}}
	encoded := cfg.Encode()

	decoded, err := DecodeRemoteMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeRemoteMessage: %v", err)
	}
	if decoded.ConfigureAck == nil || decoded.ConfigureAck.Code1 != 622 {
		t.Fatalf("ConfigureAck = %+v, want Code1=622", decoded.ConfigureAck)
	}
}
