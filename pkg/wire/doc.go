// Package wire implements the hand-rolled protobuf-shaped codec used by the
// Android TV Remote Protocol v2: varint encoding, tag bytes, length-prefixed
// framing, and the two top-level message shapes exchanged on the pairing and
// control ports (OuterMessage and RemoteMessage).
//
// The wire format is a strict subset of protobuf: only varint and
// length-delimited fields are produced. Decoders skip fields with unknown
// numbers, including fixed32 and fixed64 fields; a group (wire types 3 and 4)
// or an invalid wire type fails the decode.
package wire
