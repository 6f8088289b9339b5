package log

import "time"

// Event represents a protocol log event captured at any layer of the
// pairing or control session. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the TLS connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (IP:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (exactly one of these is set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Session state
	ControlMsg  *ControlMsgEvent  `cbor:"13,keyasint,omitempty"` // Ping/key inject
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	LayerTransport Layer = 0
	LayerPairing   Layer = 1
	LayerControl   Layer = 2
	LayerSession   Layer = 3
)

func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerPairing:
		return "PAIRING"
	case LayerControl:
		return "CONTROL"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	CategoryFrame   Category = 0
	CategoryMessage Category = 1
	CategoryState   Category = 2
	CategoryControl Category = 3
	CategoryError   Category = 4
)

func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryControl:
		return "CONTROL"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	Size      int    `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded pairing or control message.
type MessageEvent struct {
	// FieldNumber is the top-level field that was set on the outer message.
	FieldNumber int `cbor:"1,keyasint"`

	// Kind names the message, e.g. "pairing_request", "remote_key_inject".
	Kind string `cbor:"2,keyasint"`

	// Summary is a short human-readable rendering for log review.
	Summary string `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures session lifecycle transitions.
type StateChangeEvent struct {
	Entity   string `cbor:"1,keyasint"` // "pairing", "control", "session"
	OldState string `cbor:"2,keyasint,omitempty"`
	NewState string `cbor:"3,keyasint"`
	Reason   string `cbor:"4,keyasint,omitempty"`
}

// ControlMsgEvent captures ping and key-inject traffic.
type ControlMsgEvent struct {
	Type    ControlMsgType `cbor:"1,keyasint"`
	PingID  *uint64        `cbor:"2,keyasint,omitempty"`
	Keycode *uint32        `cbor:"3,keyasint,omitempty"`
}

type ControlMsgType uint8

const (
	ControlMsgPingRequest  ControlMsgType = 0
	ControlMsgPingResponse ControlMsgType = 1
	ControlMsgKeyInject    ControlMsgType = 2
)

func (c ControlMsgType) String() string {
	switch c {
	case ControlMsgPingRequest:
		return "PING_REQUEST"
	case ControlMsgPingResponse:
		return "PING_RESPONSE"
	case ControlMsgKeyInject:
		return "KEY_INJECT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`
	Context string `cbor:"3,keyasint,omitempty"`
}
