package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/atvremote/atvremote-go/pkg/control"
	"github.com/atvremote/atvremote-go/pkg/discovery"
	"github.com/atvremote/atvremote-go/pkg/identity"
	"github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/pairing"
	"github.com/atvremote/atvremote-go/pkg/persistence"
	"github.com/atvremote/atvremote-go/pkg/transport"
	"github.com/atvremote/atvremote-go/pkg/wire"
)

// ControlRetryDelay is the fixed wait before retrying the control port
// after an unexpected disconnect. Deliberately a flat delay rather than
// exponential backoff: transient control-port loss is common and brief,
// and re-prompting for a pairing code on every hiccup would be worse than
// a steady retry.
const ControlRetryDelay = 2 * time.Second

// ResumeDelay is how long Resume waits for the OS network to settle
// before reconnecting.
const ResumeDelay = 3 * time.Second

// ClientName identifies this client to the TV during pairing and control
// handshakes.
const ClientName = "atvremote"

// ErrNoActivePairing is returned by SubmitCode when no pairing exchange is
// in progress.
var ErrNoActivePairing = errors.New("session: no pairing in progress")

// ErrNotConnected is returned by SendKey when the control channel is not
// currently configured.
var ErrNotConnected = errors.New("session: not connected to a control channel")

// Supervisor holds at most one active connection to a TV: discovery
// results reach it through ConnectToEndpoint, pairing codes through
// SubmitCode, and its lifecycle is observed by watching Snapshot values
// via Watch.
type Supervisor struct {
	identity *identity.ClientIdentity
	store    *persistence.SessionStateStore
	logger   log.Logger

	publisher *Publisher

	mu            sync.Mutex
	cancel        context.CancelFunc
	activePairing *pairing.Machine
	pairingConn   *transport.Conn
	activeControl *control.Machine
	deviceIPv4    string
	deviceName    string
}

// NewSupervisor constructs a Supervisor. id is this client's stable
// identity; store persists the last successfully configured device.
func NewSupervisor(id *identity.ClientIdentity, store *persistence.SessionStateStore, logger log.Logger) *Supervisor {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Supervisor{
		identity:  id,
		store:     store,
		logger:    logger,
		publisher: NewPublisher(Snapshot{State: StateDisconnected}),
	}
}

// Watch subscribes to connection-state snapshots. Callers must invoke the
// returned cancel function once done watching.
func (s *Supervisor) Watch() (<-chan Snapshot, func()) { return s.publisher.Watch() }

// Snapshot returns the most recently published connection state.
func (s *Supervisor) Snapshot() Snapshot { return s.publisher.Get() }

// Bootstrap attempts to reconnect to the last persisted device, or
// publishes Searching so the caller knows to start discovery.
func (s *Supervisor) Bootstrap(ctx context.Context) error {
	state, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("session: load persisted state: %w", err)
	}
	if state.LastDeviceIPv4 != "" {
		return s.connectControl(ctx, state.LastDeviceIPv4, "")
	}
	s.publisher.Set(Snapshot{State: StateSearching})
	return nil
}

// ConnectToEndpoint begins connecting to a discovered endpoint. If its
// address matches the persisted last device, the control port is dialed
// directly; otherwise the pairing port is opened and the supervisor waits
// for SubmitCode.
func (s *Supervisor) ConnectToEndpoint(ctx context.Context, ep discovery.DeviceEndpoint) error {
	state, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("session: load persisted state: %w", err)
	}
	if state.LastDeviceIPv4 != "" && state.LastDeviceIPv4 == ep.IPv4 {
		return s.connectControl(ctx, ep.IPv4, ep.ServiceName)
	}
	return s.startPairing(ctx, ep)
}

func (s *Supervisor) startPairing(ctx context.Context, ep discovery.DeviceEndpoint) error {
	s.publisher.Set(Snapshot{State: StateConnecting, Pairing: true, DeviceName: ep.ServiceName, DeviceIPv4: ep.IPv4})

	clientCert, err := s.identity.TLSCertificate()
	if err != nil {
		return s.fail(err)
	}
	capture := &transport.CapturedCert{}
	cfg := transport.NewPairingTLSConfig(clientCert, capture)

	addr := net.JoinHostPort(ep.IPv4, strconv.Itoa(discovery.PairingPort))
	conn, err := transport.Dial(ctx, addr, cfg, log.LayerPairing, s.logger)
	if err != nil {
		return s.fail(err)
	}

	clientParams, err := identity.RsaPublicParamsFromCert(s.identity.Certificate)
	if err != nil {
		conn.Close()
		return s.fail(err)
	}
	serverParams, err := identity.ExtractRsaPublicParams(capture.DER)
	if err != nil {
		conn.Close()
		return s.fail(err)
	}

	deviceInfo := &wire.DeviceInfo{Model: ClientName, Vendor: ClientName}
	m := pairing.NewMachine(conn, ClientName, deviceInfo, clientParams, serverParams, s.logger)
	if err := m.Negotiate(ctx); err != nil {
		conn.Close()
		return s.fail(err)
	}

	s.mu.Lock()
	s.activePairing = m
	s.pairingConn = conn
	s.deviceIPv4 = ep.IPv4
	s.deviceName = ep.ServiceName
	s.mu.Unlock()

	s.publisher.Set(Snapshot{State: StateConnecting, Pairing: true, DeviceName: ep.ServiceName, DeviceIPv4: ep.IPv4})
	return nil
}

// SubmitCode sends a user-entered pairing code on the in-progress pairing
// connection. ErrBadSecret means the caller may call SubmitCode again with
// a fresh code on the same session.
func (s *Supervisor) SubmitCode(ctx context.Context, code string) error {
	s.mu.Lock()
	m := s.activePairing
	conn := s.pairingConn
	ip := s.deviceIPv4
	name := s.deviceName
	s.mu.Unlock()

	if m == nil {
		return ErrNoActivePairing
	}

	err := m.SubmitCode(code)
	if errors.Is(err, pairing.ErrBadSecret) {
		s.publisher.Set(Snapshot{State: StateConnecting, Pairing: true, DeviceName: name, DeviceIPv4: ip, ErrorMessage: "incorrect code, try again"})
		return err
	}
	if err != nil {
		conn.Close()
		return s.fail(err)
	}

	conn.Close()
	s.mu.Lock()
	s.activePairing = nil
	s.pairingConn = nil
	s.mu.Unlock()

	return s.connectControl(ctx, ip, name)
}

// connectControl dials the control port, hands the resulting machine to a
// background supervisor loop that applies the fixed-delay retry policy,
// and returns once the first attempt's outcome is known.
func (s *Supervisor) connectControl(ctx context.Context, ip, name string) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.publisher.Set(Snapshot{State: StateConnecting, DeviceName: name, DeviceIPv4: ip})

	conn, m, err := s.dialControl(runCtx, ip)
	if err != nil {
		return s.fail(err)
	}

	go s.controlSupervisorLoop(runCtx, ip, name, conn, m)

	select {
	case <-m.Configured():
		s.setActiveControl(m)
		s.publisher.Set(Snapshot{State: StateConnected, DeviceName: name, DeviceIPv4: ip})
		s.persistDevice(ip)
		return nil
	case <-m.Closed():
		return s.fail(m.Err())
	case <-runCtx.Done():
		return nil
	}
}

func (s *Supervisor) dialControl(ctx context.Context, ip string) (*transport.Conn, *control.Machine, error) {
	clientCert, err := s.identity.TLSCertificate()
	if err != nil {
		return nil, nil, err
	}
	capture := &transport.CapturedCert{}
	cfg := transport.NewControlTLSConfig(clientCert, nil, capture)

	addr := net.JoinHostPort(ip, strconv.Itoa(discovery.ControlPort))
	conn, err := transport.Dial(ctx, addr, cfg, log.LayerControl, s.logger)
	if err != nil {
		return nil, nil, err
	}

	deviceInfo := &wire.DeviceInfo{Model: ClientName, Vendor: ClientName}
	m := control.NewMachine(conn, deviceInfo, s.logger)
	return conn, m, nil
}

// controlSupervisorLoop runs m until it exits, then applies the
// control-port-failure policy: wait ControlRetryDelay, retry the same IP,
// repeat indefinitely until runCtx is canceled. It never falls back to the
// pairing port; a transient control-port loss must not re-prompt for a
// code.
func (s *Supervisor) controlSupervisorLoop(runCtx context.Context, ip, name string, conn *transport.Conn, m *control.Machine) {
	first := true
	for {
		s.setActiveControl(m)
		if !first {
			go s.watchConfigured(runCtx, m, ip, name)
		}
		first = false

		err := m.Run(runCtx)
		conn.Close()
		s.setActiveControl(nil)
		if runCtx.Err() != nil {
			return
		}
		if err != nil {
			s.publisher.Set(Snapshot{State: StateConnecting, DeviceName: name, DeviceIPv4: ip, ErrorMessage: err.Error()})
		}

		for {
			select {
			case <-time.After(ControlRetryDelay):
			case <-runCtx.Done():
				return
			}
			var dialErr error
			conn, m, dialErr = s.dialControl(runCtx, ip)
			if dialErr == nil {
				break
			}
			if runCtx.Err() != nil {
				return
			}
			s.publisher.Set(Snapshot{State: StateConnecting, DeviceName: name, DeviceIPv4: ip, ErrorMessage: dialErr.Error()})
		}
	}
}

func (s *Supervisor) watchConfigured(runCtx context.Context, m *control.Machine, ip, name string) {
	select {
	case <-m.Configured():
		s.publisher.Set(Snapshot{State: StateConnected, DeviceName: name, DeviceIPv4: ip})
		s.persistDevice(ip)
	case <-runCtx.Done():
	case <-m.Closed():
	}
}

func (s *Supervisor) persistDevice(ip string) {
	if err := s.store.Save(persistence.SessionState{LastDeviceIPv4: ip}); err != nil {
		s.logger.Log(log.Event{
			Timestamp: time.Now(),
			Layer:     log.LayerSession,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerSession, Message: err.Error(), Context: "persist last device"},
		})
	}
}

// SendKey forwards a key press to the active control channel.
func (s *Supervisor) SendKey(ctx context.Context, keycode control.Keycode) error {
	s.mu.Lock()
	m := s.activeControl
	s.mu.Unlock()
	if m == nil {
		return ErrNotConnected
	}
	return m.SendKey(ctx, keycode)
}

func (s *Supervisor) setActiveControl(m *control.Machine) {
	s.mu.Lock()
	s.activeControl = m
	s.mu.Unlock()
}

// Suspend cancels the active transport and publishes Paused, in response
// to an OS sleep/suspend notification.
func (s *Supervisor) Suspend() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.activeControl = nil
	s.mu.Unlock()
	s.publisher.Set(Snapshot{State: StatePaused})
}

// Resume waits for the OS network to settle, then re-bootstraps as if the
// process had just started.
func (s *Supervisor) Resume(ctx context.Context) error {
	select {
	case <-time.After(ResumeDelay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.Bootstrap(ctx)
}

// Disconnect cancels any active transport and publishes Disconnected. No
// automatic reconnection follows.
func (s *Supervisor) Disconnect() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.activePairing = nil
	s.activeControl = nil
	if s.pairingConn != nil {
		s.pairingConn.Close()
		s.pairingConn = nil
	}
	s.mu.Unlock()
	s.publisher.Set(Snapshot{State: StateDisconnected})
}

func (s *Supervisor) fail(err error) error {
	s.publisher.Set(Snapshot{State: StateError, ErrorMessage: err.Error()})
	return err
}
