package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

// DialTimeout bounds how long establishing TCP+TLS to an endpoint may take.
const DialTimeout = 5 * time.Second

// readChunkSize is how many bytes are requested from the network per read.
const readChunkSize = 4096

// Conn is a framed TLS connection to one TV endpoint, either the pairing or
// the control port. It serializes writes, owns a Reassembler for reads, and
// never blocks the caller's goroutine beyond the configured timeouts.
type Conn struct {
	tlsConn *tls.Conn
	connID  string
	logger  log.Logger
	layer   log.Layer

	reassembler *wire.Reassembler

	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// Dial opens TCP to addr and performs the TLS handshake using cfg. layer
// tags events logged for this connection as pairing- or control-port
// traffic.
func Dial(ctx context.Context, addr string, cfg *tls.Config, layer log.Layer, logger log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.NoopLogger{}
	}

	dialCtx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()

	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	tlsConn := tls.Client(rawConn, cfg)
	if err := tlsConn.HandshakeContext(dialCtx); err != nil {
		_ = rawConn.Close()
		return nil, fmt.Errorf("transport: TLS handshake with %s: %w", addr, err)
	}

	c := &Conn{
		tlsConn:     tlsConn,
		connID:      uuid.NewString(),
		logger:      logger,
		layer:       layer,
		reassembler: wire.NewReassembler(0),
	}
	return c, nil
}

// ConnID returns a unique identifier for this connection, used to correlate
// log events.
func (c *Conn) ConnID() string { return c.connID }

// RemoteAddr returns the peer's network address.
func (c *Conn) RemoteAddr() net.Addr { return c.tlsConn.RemoteAddr() }

// Send writes one length-prefixed frame containing payload.
func (c *Conn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	framed := wire.Frame(payload)
	if _, err := c.tlsConn.Write(framed); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	c.logger.Log(log.Event{
		Timestamp:    nowFunc(),
		ConnectionID: c.connID,
		Direction:    log.DirectionOut,
		Layer:        c.layer,
		Category:     log.CategoryFrame,
		RemoteAddr:   c.RemoteAddr().String(),
		Frame:        &log.FrameEvent{Size: len(framed)},
	})
	return nil
}

// Receive blocks until one complete frame is available, the deadline
// elapses, or the connection is closed. A deadline of 0 disables the
// per-call timeout (the connection's own lifetime still bounds it).
func (c *Conn) Receive(deadline time.Duration) ([]byte, error) {
	for {
		if payload, ok, err := c.reassembler.Next(); err != nil {
			return nil, fmt.Errorf("transport: reassemble: %w", err)
		} else if ok {
			c.logger.Log(log.Event{
				Timestamp:    nowFunc(),
				ConnectionID: c.connID,
				Direction:    log.DirectionIn,
				Layer:        c.layer,
				Category:     log.CategoryFrame,
				RemoteAddr:   c.RemoteAddr().String(),
				Frame:        &log.FrameEvent{Size: len(payload)},
			})
			return payload, nil
		}

		var readDeadline time.Time
		if deadline > 0 {
			readDeadline = time.Now().Add(deadline)
		}
		if err := c.tlsConn.SetReadDeadline(readDeadline); err != nil {
			return nil, err
		}
		buf := make([]byte, readChunkSize)
		n, err := c.tlsConn.Read(buf)
		if n > 0 {
			c.reassembler.Feed(buf[:n])
		}
		if err != nil {
			return nil, fmt.Errorf("transport: read: %w", err)
		}
	}
}

// Close shuts down the TLS connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.tlsConn.Close()
}

// nowFunc is overridable in tests that need deterministic timestamps.
var nowFunc = time.Now
