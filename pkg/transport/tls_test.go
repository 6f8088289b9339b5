package transport

import (
	"testing"

	"github.com/atvremote/atvremote-go/pkg/identity"
)

func TestVerifyPinnedAcceptsMatchingCert(t *testing.T) {
	id, err := identity.Generate("tv")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	verify := verifyPinned(id.Certificate)
	if err := verify([][]byte{id.Certificate.Raw}, nil); err != nil {
		t.Errorf("expected matching certificate to be accepted, got %v", err)
	}
}

func TestVerifyPinnedRejectsDifferentCert(t *testing.T) {
	pinned, err := identity.Generate("tv")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	other, err := identity.Generate("impostor")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	verify := verifyPinned(pinned.Certificate)
	if err := verify([][]byte{other.Certificate.Raw}, nil); err == nil {
		t.Error("expected a mismatched certificate to be rejected")
	}
}

func TestVerifyCaptureRecordsLeaf(t *testing.T) {
	id, err := identity.Generate("tv")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	capture := &CapturedCert{}
	verify := verifyCapture(capture)
	if err := verify([][]byte{id.Certificate.Raw}, nil); err != nil {
		t.Fatalf("verifyCapture: %v", err)
	}
	if string(capture.DER) != string(id.Certificate.Raw) {
		t.Error("captured certificate does not match presented certificate")
	}
}
