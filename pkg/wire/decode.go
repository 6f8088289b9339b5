package wire

import "fmt"

// fieldValue holds a decoded field's raw value, keyed by whichever
// interpretation the caller needs: varint for WireVarint fields, bytes for
// WireLengthDelimited fields.
type fieldValue struct {
	wireType WireType
	varint   uint64
	bytes    []byte
}

// repeatedField is a decoded field retaining its field number, used where a
// message may contain the same field number more than once (repeated
// fields, e.g. Options.InputEncodings).
type repeatedField struct {
	number int
	fieldValue
}

// decodeFields parses buf into a map from field number to its last decoded
// value (last-one-wins, per protobuf semantics for non-repeated fields).
// Unknown wire types are rejected; unknown field numbers are kept so callers
// can choose to ignore them, but decoding never fails solely because a field
// number is not recognized by the caller.
func decodeFields(buf []byte) (map[int]fieldValue, error) {
	fields := make(map[int]fieldValue)
	rest := buf
	for len(rest) > 0 {
		tag, n := DecodeVarint(rest)
		if n == 0 {
			return nil, fmt.Errorf("wire: truncated tag")
		}
		rest = rest[n:]
		fieldNumber, wt := DecodeTag(tag)

		switch wt {
		case WireVarint:
			v, n := DecodeVarint(rest)
			if n == 0 {
				return nil, fmt.Errorf("wire: truncated varint field %d", fieldNumber)
			}
			fields[fieldNumber] = fieldValue{wireType: wt, varint: v}
			rest = rest[n:]
		case WireLengthDelimited:
			length, n := DecodeVarint(rest)
			if n == 0 {
				return nil, fmt.Errorf("wire: truncated length field %d", fieldNumber)
			}
			rest = rest[n:]
			if uint64(len(rest)) < length {
				return nil, fmt.Errorf("wire: truncated body field %d", fieldNumber)
			}
			fields[fieldNumber] = fieldValue{wireType: wt, bytes: rest[:length]}
			rest = rest[length:]
		case WireFixed64:
			if len(rest) < 8 {
				return nil, fmt.Errorf("wire: truncated fixed64 field %d", fieldNumber)
			}
			rest = rest[8:]
		case WireFixed32:
			if len(rest) < 4 {
				return nil, fmt.Errorf("wire: truncated fixed32 field %d", fieldNumber)
			}
			rest = rest[4:]
		default:
			return nil, fmt.Errorf("wire: unsupported wire type %d on field %d", wt, fieldNumber)
		}
	}
	return fields, nil
}

// decodeRepeatedFields parses buf like decodeFields but preserves every
// occurrence of every field number, in order, for messages with repeated
// fields.
func decodeRepeatedFields(buf []byte) ([]repeatedField, error) {
	var out []repeatedField
	rest := buf
	for len(rest) > 0 {
		tag, n := DecodeVarint(rest)
		if n == 0 {
			return nil, fmt.Errorf("wire: truncated tag")
		}
		rest = rest[n:]
		fieldNumber, wt := DecodeTag(tag)

		switch wt {
		case WireVarint:
			v, n := DecodeVarint(rest)
			if n == 0 {
				return nil, fmt.Errorf("wire: truncated varint field %d", fieldNumber)
			}
			out = append(out, repeatedField{number: fieldNumber, fieldValue: fieldValue{wireType: wt, varint: v}})
			rest = rest[n:]
		case WireLengthDelimited:
			length, n := DecodeVarint(rest)
			if n == 0 {
				return nil, fmt.Errorf("wire: truncated length field %d", fieldNumber)
			}
			rest = rest[n:]
			if uint64(len(rest)) < length {
				return nil, fmt.Errorf("wire: truncated body field %d", fieldNumber)
			}
			out = append(out, repeatedField{number: fieldNumber, fieldValue: fieldValue{wireType: wt, bytes: rest[:length]}})
			rest = rest[length:]
		case WireFixed64:
			if len(rest) < 8 {
				return nil, fmt.Errorf("wire: truncated fixed64 field %d", fieldNumber)
			}
			rest = rest[8:]
		case WireFixed32:
			if len(rest) < 4 {
				return nil, fmt.Errorf("wire: truncated fixed32 field %d", fieldNumber)
			}
			rest = rest[4:]
		default:
			return nil, fmt.Errorf("wire: unsupported wire type %d on field %d", wt, fieldNumber)
		}
	}
	return out, nil
}
