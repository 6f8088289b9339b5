package wire

import "errors"

// ErrFrameTooLarge is returned when a frame's declared length exceeds the
// reassembler's configured maximum.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum message size")

// DefaultMaxFrameSize bounds the length prefix the reassembler will accept,
// guarding against a malicious or corrupt peer advertising an enormous frame.
const DefaultMaxFrameSize = 1 << 20 // 1 MiB

// Frame prepends a varint length prefix to payload.
func Frame(payload []byte) []byte {
	out := AppendVarint(nil, uint64(len(payload)))
	return append(out, payload...)
}

// ReadFrame attempts to read one length-prefixed frame from the front of
// buf. ok is false when buf holds an incomplete varint or an incomplete
// body; the caller should accumulate more bytes and retry. It never blocks.
func ReadFrame(buf []byte) (payload []byte, consumedTotal int, ok bool) {
	length, n := DecodeVarint(buf)
	if n == 0 {
		return nil, 0, false
	}
	total := n + int(length)
	if len(buf) < total {
		return nil, 0, false
	}
	return buf[n:total], total, true
}

// Reassembler accumulates raw stream bytes and yields complete frames. It
// owns no goroutine and performs no I/O; callers feed it bytes as they
// arrive (e.g. from a single reader goroutine) and drain frames between
// feeds.
type Reassembler struct {
	buf      []byte
	maxFrame int
}

// NewReassembler creates a Reassembler that rejects any frame whose declared
// length exceeds maxFrame. A maxFrame of 0 selects DefaultMaxFrameSize.
func NewReassembler(maxFrame int) *Reassembler {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	return &Reassembler{maxFrame: maxFrame}
}

// Feed appends newly read bytes to the internal buffer.
func (r *Reassembler) Feed(chunk []byte) {
	r.buf = append(r.buf, chunk...)
}

// Next extracts the next complete frame from the internal buffer, if any.
// It must be called repeatedly after each Feed until ok is false, since a
// single Feed may have delivered more than one frame.
func (r *Reassembler) Next() (payload []byte, ok bool, err error) {
	if len(r.buf) == 0 {
		return nil, false, nil
	}
	length, n := DecodeVarint(r.buf)
	if n == 0 {
		if len(r.buf) > 10 {
			return nil, false, errors.New("wire: length prefix varint too long")
		}
		return nil, false, nil
	}
	if int(length) > r.maxFrame {
		return nil, false, ErrFrameTooLarge
	}
	total := n + int(length)
	if len(r.buf) < total {
		return nil, false, nil
	}
	payload = make([]byte, length)
	copy(payload, r.buf[n:total])
	r.buf = r.buf[total:]
	return payload, true, nil
}

// Pending returns the number of bytes currently buffered awaiting a
// complete frame.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}
