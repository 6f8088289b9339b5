package session

// ConnectionState is the coarse-grained lifecycle the UI observes.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateSearching
	StateConnecting
	StateConnected
	StatePaused
	StateError
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateSearching:
		return "Searching"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StatePaused:
		return "Paused"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Snapshot is the published value observers read. Pairing is set alongside
// StateConnecting while a pairing-code exchange is in progress, and the UI
// is expected to prompt for a code whenever it is true.
type Snapshot struct {
	State        ConnectionState
	Pairing      bool
	DeviceName   string
	DeviceIPv4   string
	ErrorMessage string
}
