package wire

import "fmt"

// ProtoEncoding describes a pairing encoding option.
type ProtoEncoding struct {
	Type         int32
	SymbolLength int32
}

func (e ProtoEncoding) encode() []byte {
	var buf []byte
	if e.Type != 0 {
		buf = AppendVarintField(buf, 1, uint64(e.Type))
	}
	if e.SymbolLength != 0 {
		buf = AppendVarintField(buf, 2, uint64(e.SymbolLength))
	}
	return buf
}

func decodeProtoEncoding(buf []byte) (ProtoEncoding, error) {
	var e ProtoEncoding
	fields, err := decodeFields(buf)
	if err != nil {
		return e, err
	}
	if v, ok := fields[1]; ok {
		e.Type = int32(v.varint)
	}
	if v, ok := fields[2]; ok {
		e.SymbolLength = int32(v.varint)
	}
	return e, nil
}

// DeviceInfo identifies the peer's client/device software.
type DeviceInfo struct {
	Model       string
	Vendor      string
	Unknown1    int32
	Version     string
	PackageName string
	AppVersion  string
}

func (d DeviceInfo) encode() []byte {
	var buf []byte
	if d.Model != "" {
		buf = AppendLengthDelimited(buf, 1, []byte(d.Model))
	}
	if d.Vendor != "" {
		buf = AppendLengthDelimited(buf, 2, []byte(d.Vendor))
	}
	if d.Unknown1 != 0 {
		buf = AppendVarintField(buf, 3, uint64(d.Unknown1))
	}
	if d.Version != "" {
		buf = AppendLengthDelimited(buf, 4, []byte(d.Version))
	}
	if d.PackageName != "" {
		buf = AppendLengthDelimited(buf, 5, []byte(d.PackageName))
	}
	if d.AppVersion != "" {
		buf = AppendLengthDelimited(buf, 6, []byte(d.AppVersion))
	}
	return buf
}

// PairingRequest is OuterMessage field 10.
type PairingRequest struct {
	ClientName  string
	ServiceName string
	DeviceInfo  *DeviceInfo
}

// Options is OuterMessage field 20.
type Options struct {
	InputEncodings  []ProtoEncoding
	OutputEncodings []ProtoEncoding
	PreferredRole   int32
}

// Configuration is OuterMessage field 30.
type Configuration struct {
	Encoding   ProtoEncoding
	ClientRole int32
}

// PairingSecret is OuterMessage field 40.
type PairingSecret struct {
	Secret []byte
}

// OuterMessage is the message exchanged on the pairing port (6467).
type OuterMessage struct {
	ProtocolVersion int32
	Status          int32

	PairingRequest *PairingRequest
	Options        *Options
	Configuration  *Configuration
	Secret         *PairingSecret
}

// NewOuterMessage builds an OuterMessage with the mandatory
// protocol_version=2, status=200 prefix.
func NewOuterMessage() OuterMessage {
	return OuterMessage{ProtocolVersion: 2, Status: 200}
}

// Encode serializes m to its wire form.
func (m OuterMessage) Encode() []byte {
	var buf []byte
	buf = AppendVarintField(buf, 1, uint64(m.ProtocolVersion))
	buf = AppendVarintField(buf, 2, uint64(m.Status))

	if m.PairingRequest != nil {
		var inner []byte
		inner = AppendLengthDelimited(inner, 1, []byte(m.PairingRequest.ClientName))
		if m.PairingRequest.ServiceName != "" {
			inner = AppendLengthDelimited(inner, 2, []byte(m.PairingRequest.ServiceName))
		}
		if m.PairingRequest.DeviceInfo != nil {
			inner = AppendLengthDelimited(inner, 3, m.PairingRequest.DeviceInfo.encode())
		}
		buf = AppendLengthDelimited(buf, 10, inner)
	}
	if m.Options != nil {
		var inner []byte
		for _, e := range m.Options.InputEncodings {
			inner = AppendLengthDelimited(inner, 1, e.encode())
		}
		for _, e := range m.Options.OutputEncodings {
			inner = AppendLengthDelimited(inner, 2, e.encode())
		}
		if m.Options.PreferredRole != 0 {
			inner = AppendVarintField(inner, 3, uint64(m.Options.PreferredRole))
		}
		buf = AppendLengthDelimited(buf, 20, inner)
	}
	if m.Configuration != nil {
		var inner []byte
		inner = AppendLengthDelimited(inner, 1, m.Configuration.Encoding.encode())
		if m.Configuration.ClientRole != 0 {
			inner = AppendVarintField(inner, 2, uint64(m.Configuration.ClientRole))
		}
		buf = AppendLengthDelimited(buf, 30, inner)
	}
	if m.Secret != nil {
		var inner []byte
		inner = AppendLengthDelimited(inner, 1, m.Secret.Secret)
		buf = AppendLengthDelimited(buf, 40, inner)
	}
	return buf
}

// DecodeOuterMessage parses the wire form of an OuterMessage. Unknown field
// numbers are skipped without error, as are fixed32/fixed64 fields; a group
// or invalid wire type is a decode error.
func DecodeOuterMessage(buf []byte) (OuterMessage, error) {
	var m OuterMessage
	fields, err := decodeFields(buf)
	if err != nil {
		return m, fmt.Errorf("wire: decode OuterMessage: %w", err)
	}
	if f, ok := fields[1]; ok {
		m.ProtocolVersion = int32(f.varint)
	}
	if f, ok := fields[2]; ok {
		m.Status = int32(f.varint)
	}
	if f, ok := fields[10]; ok {
		inner, err := decodeFields(f.bytes)
		if err != nil {
			return m, err
		}
		pr := &PairingRequest{}
		if v, ok := inner[1]; ok {
			pr.ClientName = string(v.bytes)
		}
		if v, ok := inner[2]; ok {
			pr.ServiceName = string(v.bytes)
		}
		m.PairingRequest = pr
	}
	if f, ok := fields[20]; ok {
		opts, err := decodeOptions(f.bytes)
		if err != nil {
			return m, err
		}
		m.Options = &opts
	}
	if f, ok := fields[30]; ok {
		cfg, err := decodeConfiguration(f.bytes)
		if err != nil {
			return m, err
		}
		m.Configuration = &cfg
	}
	if f, ok := fields[40]; ok {
		inner, err := decodeFields(f.bytes)
		if err != nil {
			return m, err
		}
		sec := &PairingSecret{}
		if v, ok := inner[1]; ok {
			sec.Secret = v.bytes
		}
		m.Secret = sec
	}
	return m, nil
}

func decodeOptions(buf []byte) (Options, error) {
	var opts Options
	fields, err := decodeRepeatedFields(buf)
	if err != nil {
		return opts, err
	}
	for _, f := range fields {
		switch f.number {
		case 1:
			e, err := decodeProtoEncoding(f.bytes)
			if err != nil {
				return opts, err
			}
			opts.InputEncodings = append(opts.InputEncodings, e)
		case 2:
			e, err := decodeProtoEncoding(f.bytes)
			if err != nil {
				return opts, err
			}
			opts.OutputEncodings = append(opts.OutputEncodings, e)
		case 3:
			opts.PreferredRole = int32(f.varint)
		}
	}
	return opts, nil
}

func decodeConfiguration(buf []byte) (Configuration, error) {
	var cfg Configuration
	fields, err := decodeFields(buf)
	if err != nil {
		return cfg, err
	}
	if f, ok := fields[1]; ok {
		e, err := decodeProtoEncoding(f.bytes)
		if err != nil {
			return cfg, err
		}
		cfg.Encoding = e
	}
	if f, ok := fields[2]; ok {
		cfg.ClientRole = int32(f.varint)
	}
	return cfg, nil
}

// RemoteConfigure is RemoteMessage field 1 (outbound) / field 2 (ack).
type RemoteConfigure struct {
	Code1      int32
	DeviceInfo *DeviceInfo
}

// RemoteKeyInject is RemoteMessage field 10.
type RemoteKeyInject struct {
	Keycode   int32
	Direction int32
}

// Key directions for RemoteKeyInject.
const (
	DirectionDown = 1
	DirectionUp   = 2
)

// RemoteMessage is the message exchanged on the control port (6466).
type RemoteMessage struct {
	Configure    *RemoteConfigure
	ConfigureAck *RemoteConfigure
	PingRequest  *int64 // field 8: ping id
	PingResponse *int64 // field 9: ping id
	KeyInject    *RemoteKeyInject
}

// Encode serializes m to its wire form.
func (m RemoteMessage) Encode() []byte {
	var buf []byte
	if m.Configure != nil {
		buf = AppendLengthDelimited(buf, 1, encodeRemoteConfigure(*m.Configure))
	}
	if m.ConfigureAck != nil {
		buf = AppendLengthDelimited(buf, 2, encodeRemoteConfigure(*m.ConfigureAck))
	}
	if m.PingRequest != nil {
		var inner []byte
		inner = AppendVarintField(inner, 1, uint64(*m.PingRequest))
		buf = AppendLengthDelimited(buf, 8, inner)
	}
	if m.PingResponse != nil {
		var inner []byte
		inner = AppendVarintField(inner, 1, uint64(*m.PingResponse))
		buf = AppendLengthDelimited(buf, 9, inner)
	}
	if m.KeyInject != nil {
		var inner []byte
		inner = AppendVarintField(inner, 1, uint64(m.KeyInject.Keycode))
		inner = AppendVarintField(inner, 2, uint64(m.KeyInject.Direction))
		buf = AppendLengthDelimited(buf, 10, inner)
	}
	return buf
}

func encodeRemoteConfigure(c RemoteConfigure) []byte {
	var inner []byte
	inner = AppendVarintField(inner, 1, uint64(c.Code1))
	if c.DeviceInfo != nil {
		inner = AppendLengthDelimited(inner, 2, c.DeviceInfo.encode())
	}
	return inner
}

// DecodeRemoteMessage parses the wire form of a RemoteMessage. Unknown field
// numbers are skipped without error, as are fixed32/fixed64 fields; a group
// or invalid wire type is a decode error.
func DecodeRemoteMessage(buf []byte) (RemoteMessage, error) {
	var m RemoteMessage
	fields, err := decodeFields(buf)
	if err != nil {
		return m, fmt.Errorf("wire: decode RemoteMessage: %w", err)
	}
	if f, ok := fields[1]; ok {
		c, err := decodeRemoteConfigure(f.bytes)
		if err != nil {
			return m, err
		}
		m.Configure = &c
	}
	if f, ok := fields[2]; ok {
		c, err := decodeRemoteConfigure(f.bytes)
		if err != nil {
			return m, err
		}
		m.ConfigureAck = &c
	}
	if f, ok := fields[8]; ok {
		inner, err := decodeFields(f.bytes)
		if err != nil {
			return m, err
		}
		if v, ok := inner[1]; ok {
			id := int64(v.varint)
			m.PingRequest = &id
		}
	}
	if f, ok := fields[9]; ok {
		inner, err := decodeFields(f.bytes)
		if err != nil {
			return m, err
		}
		if v, ok := inner[1]; ok {
			id := int64(v.varint)
			m.PingResponse = &id
		}
	}
	if f, ok := fields[10]; ok {
		inner, err := decodeFields(f.bytes)
		if err != nil {
			return m, err
		}
		ki := &RemoteKeyInject{}
		if v, ok := inner[1]; ok {
			ki.Keycode = int32(v.varint)
		}
		if v, ok := inner[2]; ok {
			ki.Direction = int32(v.varint)
		}
		m.KeyInject = ki
	}
	return m, nil
}

func decodeRemoteConfigure(buf []byte) (RemoteConfigure, error) {
	var c RemoteConfigure
	fields, err := decodeFields(buf)
	if err != nil {
		return c, err
	}
	if v, ok := fields[1]; ok {
		c.Code1 = int32(v.varint)
	}
	return c, nil
}
