package pairing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/transport"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

// State is one step of the pairing handshake, from the client's point of
// view.
type State int

const (
	StateIdle State = iota
	StateTlsReady
	StateAwaitRequestAck
	StateAwaitOptionsAck
	StateAwaitConfigurationAck
	StateShowCode
	StateAwaitSecretAck
	StateSuccess
	StateBadSecret
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateTlsReady:
		return "TlsReady"
	case StateAwaitRequestAck:
		return "AwaitRequestAck"
	case StateAwaitOptionsAck:
		return "AwaitOptionsAck"
	case StateAwaitConfigurationAck:
		return "AwaitConfigurationAck"
	case StateShowCode:
		return "ShowCode"
	case StateAwaitSecretAck:
		return "AwaitSecretAck"
	case StateSuccess:
		return "Success"
	case StateBadSecret:
		return "BadSecret"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status codes carried in OuterMessage.Status.
const (
	StatusOK        = 200
	StatusBadSecret = 402
)

// AckTimeout bounds how long each negotiation step waits for the TV's reply.
const AckTimeout = 5 * time.Second

// SecretWatchdog bounds how long SubmitCode waits for an explicit
// acknowledgement before assuming success. Some TV firmwares close the
// pairing connection without ever sending one.
const SecretWatchdog = 3 * time.Second

// ErrBadSecret is returned by SubmitCode when the TV rejects the derived
// secret (status 402). The machine returns to StateBadSecret so the caller
// may re-prompt for a code on the same TLS session.
var ErrBadSecret = errors.New("pairing: TV rejected the submitted code")

// errUnexpectedState is returned when a method is called while the machine
// is not in the state it requires.
func errUnexpectedState(method string, s State) error {
	return fmt.Errorf("pairing: %s called in state %s", method, s)
}

// Machine drives the four-step handshake (PairingRequest, Options,
// Configuration, PairingSecret) over a single pairing-port connection.
type Machine struct {
	conn   *transport.Conn
	logger log.Logger

	clientName   string
	deviceInfo   *wire.DeviceInfo
	clientParams identity.RsaPublicParams
	serverParams identity.RsaPublicParams

	truncateSecret bool
	state          State
}

// NewMachine constructs a Machine ready to run Negotiate. clientParams and
// serverParams are the RSA public parameters extracted from, respectively,
// the client's own identity certificate and the TV's captured leaf
// certificate.
func NewMachine(conn *transport.Conn, clientName string, deviceInfo *wire.DeviceInfo, clientParams, serverParams identity.RsaPublicParams, logger log.Logger) *Machine {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Machine{
		conn:         conn,
		logger:       logger,
		clientName:   clientName,
		deviceInfo:   deviceInfo,
		clientParams: clientParams,
		serverParams: serverParams,
		state:        StateIdle,
	}
}

// WithTruncatedSecretFallback opts into sending a 31-byte secret instead of
// the full 32 bytes, for TV firmwares reported to require the shorter
// variant. Off by default.
func (m *Machine) WithTruncatedSecretFallback() *Machine {
	m.truncateSecret = true
	return m
}

// State returns the machine's current step.
func (m *Machine) State() State { return m.state }

func (m *Machine) setState(s State) {
	old := m.state
	m.state = s
	m.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: m.conn.ConnID(),
		Direction:    log.DirectionOut,
		Layer:        log.LayerPairing,
		Category:     log.CategoryState,
		RemoteAddr:   m.conn.RemoteAddr().String(),
		StateChange: &log.StateChangeEvent{
			Entity:   "pairing",
			OldState: old.String(),
			NewState: s.String(),
		},
	})
}

func (m *Machine) send(msg wire.OuterMessage, kind string) error {
	if err := m.conn.Send(msg.Encode()); err != nil {
		return fmt.Errorf("pairing: send %s: %w", kind, err)
	}
	return nil
}

// recv waits up to timeout for the next OuterMessage. A timeout value of 0
// falls back to AckTimeout.
func (m *Machine) recv(timeout time.Duration) (wire.OuterMessage, error) {
	if timeout == 0 {
		timeout = AckTimeout
	}
	payload, err := m.conn.Receive(timeout)
	if err != nil {
		return wire.OuterMessage{}, err
	}
	msg, err := wire.DecodeOuterMessage(payload)
	if err != nil {
		return wire.OuterMessage{}, fmt.Errorf("pairing: decode reply: %w", err)
	}
	return msg, nil
}

// Negotiate drives the handshake from Idle through the three ack'd steps
// (PairingRequest, Options, Configuration) and leaves the machine in
// StateShowCode, ready for the user to submit a code via SubmitCode. The
// inbound discriminator per step is tolerant of any fields the TV chooses
// to echo; only the status code and successful receipt matter.
func (m *Machine) Negotiate(ctx context.Context) error {
	if m.state != StateIdle {
		return errUnexpectedState("Negotiate", m.state)
	}
	m.setState(StateTlsReady)

	req := wire.NewOuterMessage()
	req.PairingRequest = &wire.PairingRequest{ClientName: m.clientName, DeviceInfo: m.deviceInfo}
	if err := m.send(req, "pairing_request"); err != nil {
		return err
	}
	m.setState(StateAwaitRequestAck)
	if err := m.awaitAck(ctx); err != nil {
		m.setState(StateFailed)
		return err
	}

	opts := wire.NewOuterMessage()
	opts.Options = &wire.Options{
		InputEncodings:  []wire.ProtoEncoding{{Type: 3, SymbolLength: 6}},
		OutputEncodings: []wire.ProtoEncoding{{Type: 3, SymbolLength: 6}},
		PreferredRole:   1,
	}
	if err := m.send(opts, "options"); err != nil {
		return err
	}
	m.setState(StateAwaitOptionsAck)
	if err := m.awaitAck(ctx); err != nil {
		m.setState(StateFailed)
		return err
	}

	cfg := wire.NewOuterMessage()
	cfg.Configuration = &wire.Configuration{
		Encoding:   wire.ProtoEncoding{Type: 3, SymbolLength: 6},
		ClientRole: 1,
	}
	if err := m.send(cfg, "configuration"); err != nil {
		return err
	}
	m.setState(StateAwaitConfigurationAck)
	if err := m.awaitAck(ctx); err != nil {
		m.setState(StateFailed)
		return err
	}

	m.setState(StateShowCode)
	return nil
}

// awaitAck waits for any reply whose status is 200, treating a 402 reply at
// this stage (unexpected before a secret has even been sent) the same as
// any other status mismatch: an error.
func (m *Machine) awaitAck(ctx context.Context) error {
	timeout := AckTimeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < timeout {
			timeout = d
		}
	}
	reply, err := m.recv(timeout)
	if err != nil {
		return fmt.Errorf("pairing: await ack: %w", err)
	}
	if reply.Status != StatusOK {
		return fmt.Errorf("pairing: unexpected status %d", reply.Status)
	}
	return nil
}

// SubmitCode derives the pairing secret from the user-entered code and the
// two peers' RSA public parameters, sends it, and waits for the TV's
// acknowledgement. It may be called again with a fresh code after a
// StateBadSecret result, on the same TLS session.
func (m *Machine) SubmitCode(code string) error {
	if m.state != StateShowCode && m.state != StateBadSecret {
		return errUnexpectedState("SubmitCode", m.state)
	}

	parsed, err := ParseCode(code)
	if err != nil {
		return err
	}
	secret, _ := DeriveSecret(m.clientParams, m.serverParams, parsed)
	secretBytes := secret[:]
	if m.truncateSecret {
		secretBytes = TruncatedSecret(secret)
		m.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: m.conn.ConnID(),
			Direction:    log.DirectionOut,
			Layer:        log.LayerPairing,
			Category:     log.CategoryMessage,
			RemoteAddr:   m.conn.RemoteAddr().String(),
			Message:      &log.MessageEvent{FieldNumber: 40, Kind: "pairing_secret", Summary: "sending truncated 31-byte secret"},
		})
	}

	msg := wire.NewOuterMessage()
	msg.Secret = &wire.PairingSecret{Secret: secretBytes}
	if err := m.send(msg, "pairing_secret"); err != nil {
		return err
	}
	m.setState(StateAwaitSecretAck)

	sent := time.Now()
	reply, err := m.recv(SecretWatchdog)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			// No reply within SecretWatchdog: assume the TV accepted the
			// secret without sending an explicit ack.
			m.setState(StateSuccess)
			return nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// The TV closed the connection without an ack; wait out the
			// watchdog, then assume success.
			time.Sleep(time.Until(sent.Add(SecretWatchdog)))
			m.setState(StateSuccess)
			return nil
		}
		m.setState(StateFailed)
		return fmt.Errorf("pairing: await secret ack: %w", err)
	}

	if reply.Status == StatusBadSecret {
		m.setState(StateBadSecret)
		return ErrBadSecret
	}
	m.setState(StateSuccess)
	return nil
}
