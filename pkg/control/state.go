package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/transport"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

// DefaultCode1 is sent as the client's remote_configure code1 field. Its
// value is not meaningful to the client; the TV merely echoes it back.
const DefaultCode1 = 622

// KeyPressInterval is the delay between a key's direction=1 (down) and
// direction=2 (up) events.
const KeyPressInterval = 50 * time.Millisecond

// pollInterval bounds each blocking Receive call so Run can observe ctx
// cancellation promptly without a dedicated cancellation channel on the
// transport itself.
const pollInterval = 1 * time.Second

// State is the control channel's lifecycle, from the client's perspective.
type State int

const (
	StateConnecting State = iota
	StateConfigured
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConfigured:
		return "Configured"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Machine drives the control-port session: the remote_configure handshake,
// the ping echo, and outbound key injection. Run must be called from its
// own goroutine; SendKey may be called concurrently from any goroutine once
// Configured has fired.
type Machine struct {
	conn       *transport.Conn
	logger     log.Logger
	deviceInfo *wire.DeviceInfo
	code1      int32

	mu    sync.Mutex
	state State
	err   error

	configured chan struct{}
	closed     chan struct{}
}

// NewMachine constructs a Machine for one control-port connection.
func NewMachine(conn *transport.Conn, deviceInfo *wire.DeviceInfo, logger log.Logger) *Machine {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Machine{
		conn:       conn,
		logger:     logger,
		deviceInfo: deviceInfo,
		code1:      DefaultCode1,
		configured: make(chan struct{}),
		closed:     make(chan struct{}),
	}
}

// Configured is closed once the remote_configure handshake completes,
// either because the TV initiated it or acknowledged ours.
func (m *Machine) Configured() <-chan struct{} { return m.configured }

// Closed is closed when Run returns, for any reason.
func (m *Machine) Closed() <-chan struct{} { return m.closed }

// Err returns the error Run exited with, if any. Safe to call after Closed
// fires; returns nil for a clean context-cancellation shutdown.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// State returns the machine's current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	old := m.state
	m.state = s
	m.mu.Unlock()
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.conn.ConnID(),
		Direction:    log.DirectionOut,
		Layer:        log.LayerControl,
		Category:     log.CategoryState,
		RemoteAddr:   m.conn.RemoteAddr().String(),
		StateChange: &log.StateChangeEvent{
			Entity:   "control",
			OldState: old.String(),
			NewState: s.String(),
		},
	})
}

// Run sends the initial remote_configure message, then loops reading and
// reacting to inbound RemoteMessages until ctx is canceled or the
// connection fails. It returns the terminal error, or nil on a clean
// cancellation.
func (m *Machine) Run(ctx context.Context) error {
	defer close(m.closed)

	initial := wire.RemoteMessage{Configure: &wire.RemoteConfigure{Code1: m.code1, DeviceInfo: m.deviceInfo}}
	if err := m.send(initial); err != nil {
		return m.fail(err)
	}

	for {
		select {
		case <-ctx.Done():
			m.setState(StateClosed)
			return nil
		default:
		}

		payload, err := m.conn.Receive(pollInterval)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return m.fail(err)
		}

		msg, err := wire.DecodeRemoteMessage(payload)
		if err != nil {
			m.logError(err)
			continue
		}
		if err := m.handle(msg); err != nil {
			return m.fail(err)
		}
	}
}

func (m *Machine) handle(msg wire.RemoteMessage) error {
	switch {
	case msg.Configure != nil:
		ack := wire.RemoteMessage{ConfigureAck: &wire.RemoteConfigure{Code1: msg.Configure.Code1}}
		if err := m.send(ack); err != nil {
			return err
		}
		m.markConfigured()
	case msg.ConfigureAck != nil:
		m.markConfigured()
	case msg.PingRequest != nil:
		id := *msg.PingRequest
		m.logControl(log.ControlMsgPingRequest, &id, nil)
		resp := wire.RemoteMessage{PingResponse: &id}
		if err := m.send(resp); err != nil {
			return err
		}
	default:
		// Unrecognized field on this message; log and move on.
	}
	return nil
}

func (m *Machine) markConfigured() {
	m.mu.Lock()
	already := m.state == StateConfigured
	m.mu.Unlock()
	if already {
		return
	}
	m.setState(StateConfigured)
	close(m.configured)
}

// SendKey emits a logical key press: direction=down immediately, then
// direction=up after KeyPressInterval.
func (m *Machine) SendKey(ctx context.Context, keycode Keycode) error {
	down := wire.RemoteMessage{KeyInject: &wire.RemoteKeyInject{Keycode: int32(keycode), Direction: wire.DirectionDown}}
	if err := m.send(down); err != nil {
		return err
	}
	m.logControl(log.ControlMsgKeyInject, nil, uint32Ptr(uint32(keycode)))

	select {
	case <-time.After(KeyPressInterval):
	case <-ctx.Done():
		return ctx.Err()
	}

	up := wire.RemoteMessage{KeyInject: &wire.RemoteKeyInject{Keycode: int32(keycode), Direction: wire.DirectionUp}}
	return m.send(up)
}

func (m *Machine) send(msg wire.RemoteMessage) error {
	if err := m.conn.Send(msg.Encode()); err != nil {
		return fmt.Errorf("control: send: %w", err)
	}
	return nil
}

func (m *Machine) fail(err error) error {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	m.setState(StateClosed)
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.conn.ConnID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerControl,
		Category:     log.CategoryError,
		RemoteAddr:   m.conn.RemoteAddr().String(),
		Error:        &log.ErrorEventData{Layer: log.LayerControl, Message: err.Error()},
	})
	return err
}

func (m *Machine) logError(err error) {
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.conn.ConnID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerControl,
		Category:     log.CategoryError,
		RemoteAddr:   m.conn.RemoteAddr().String(),
		Error:        &log.ErrorEventData{Layer: log.LayerControl, Message: err.Error(), Context: "decode RemoteMessage"},
	})
}

func (m *Machine) logControl(kind log.ControlMsgType, pingID *int64, keycode *uint32) {
	var pid *uint64
	if pingID != nil {
		v := uint64(*pingID)
		pid = &v
	}
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.conn.ConnID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerControl,
		Category:     log.CategoryControl,
		RemoteAddr:   m.conn.RemoteAddr().String(),
		ControlMsg:   &log.ControlMsgEvent{Type: kind, PingID: pid, Keycode: keycode},
	})
}

func uint32Ptr(v uint32) *uint32 { return &v }
