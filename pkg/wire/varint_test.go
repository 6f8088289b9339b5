package wire

import (
	"bytes"
	"testing"
)

func TestEncodeVarint150(t *testing.T) {
	got := EncodeVarint(150)
	want := []byte{0x96, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeVarint(150) = %x, want %x", got, want)
	}
}

func TestDecodeVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 150, 16384, 1 << 32, ^uint64(0)}
	for _, n := range cases {
		enc := EncodeVarint(n)
		got, consumed := DecodeVarint(enc)
		if consumed != len(enc) {
			t.Errorf("DecodeVarint(%x) consumed=%d, want %d", enc, consumed, len(enc))
		}
		if got != n {
			t.Errorf("DecodeVarint(%x) = %d, want %d", enc, got, n)
		}
	}
}

func TestDecodeVarintTruncated(t *testing.T) {
	_, consumed := DecodeVarint([]byte{0x96})
	if consumed != 0 {
		t.Errorf("DecodeVarint of truncated input consumed=%d, want 0", consumed)
	}
}

func TestEncodeTagFieldOneVarint(t *testing.T) {
	got := EncodeTag(1, WireVarint)
	want := []byte{0x08}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeTag(1, varint) = %x, want %x", got, want)
	}
}

func TestEncodeTagField10LengthDelimited(t *testing.T) {
	got := EncodeTag(10, WireLengthDelimited)
	want := []byte{0x52}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeTag(10, bytes) = %x, want %x", got, want)
	}
}

func TestEncodeTagField20LengthDelimited(t *testing.T) {
	got := EncodeTag(20, WireLengthDelimited)
	want := []byte{0xA2, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeTag(20, bytes) = %x, want %x", got, want)
	}
}

func TestEncodeTagField30LengthDelimited(t *testing.T) {
	got := EncodeTag(30, WireLengthDelimited)
	want := []byte{0xF2, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeTag(30, bytes) = %x, want %x", got, want)
	}
}

func TestEncodeTagField40LengthDelimited(t *testing.T) {
	got := EncodeTag(40, WireLengthDelimited)
	want := []byte{0xC2, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeTag(40, bytes) = %x, want %x", got, want)
	}
}

func TestDecodeTag(t *testing.T) {
	tag, _ := DecodeVarint([]byte{0xA2, 0x01})
	fieldNumber, wt := DecodeTag(tag)
	if fieldNumber != 20 || wt != WireLengthDelimited {
		t.Errorf("DecodeTag = (%d, %d), want (20, length_delimited)", fieldNumber, wt)
	}
}
