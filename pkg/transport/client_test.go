package transport

import (
	"context"
	"crypto/tls"
	"net"
	"testing"
	"time"

	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

func startEchoServer(t *testing.T, serverCert tls.Certificate) (addr string, stop func()) {
	t.Helper()

	cfg := &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.RequireAnyClientCert,
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", cfg)
	if err != nil {
		t.Fatalf("tls.Listen: %v", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				reassembler := wire.NewReassembler(0)
				buf := make([]byte, 4096)
				for {
					n, err := conn.Read(buf)
					if n > 0 {
						reassembler.Feed(buf[:n])
						for {
							payload, ok, err := reassembler.Next()
							if err != nil || !ok {
								break
							}
							_, _ = conn.Write(wire.Frame(payload))
						}
					}
					if err != nil {
						return
					}
				}
			}()
		}
	}()

	return ln.Addr().String(), func() { _ = ln.Close() }
}

func selfSignedServerCert(t *testing.T) tls.Certificate {
	t.Helper()
	id, err := identity.Generate("tv-under-test")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	cert, err := id.TLSCertificate()
	if err != nil {
		t.Fatalf("TLSCertificate: %v", err)
	}
	return cert
}

func TestDialAndSendReceiveRoundTrip(t *testing.T) {
	serverCert := selfSignedServerCert(t)
	addr, stop := startEchoServer(t, serverCert)
	defer stop()

	clientID, err := identity.Generate("atvremote")
	if err != nil {
		t.Fatalf("identity.Generate: %v", err)
	}
	clientCert, err := clientID.TLSCertificate()
	if err != nil {
		t.Fatalf("TLSCertificate: %v", err)
	}

	capture := &CapturedCert{}
	cfg := NewPairingTLSConfig(clientCert, capture)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := Dial(ctx, addr, cfg, log.LayerPairing, log.NoopLogger{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if len(capture.DER) == 0 {
		t.Error("expected the server leaf certificate to be captured")
	}

	if err := conn.Send([]byte("hello")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	payload, err := conn.Receive(2 * time.Second)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload = %q, want hello", payload)
	}
}

func TestDialFailsOnUnreachableAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() // nothing listening now

	clientID, _ := identity.Generate("atvremote")
	clientCert, _ := clientID.TLSCertificate()
	capture := &CapturedCert{}
	cfg := NewPairingTLSConfig(clientCert, capture)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, addr, cfg, log.LayerPairing, log.NoopLogger{}); err == nil {
		t.Error("expected Dial to fail against a closed port")
	}
}
