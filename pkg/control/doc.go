// Package control implements the Android TV Remote Protocol v2 control
// channel run on the control port (6466): the remote_configure handshake,
// the ping request/response echo, and outbound key injection.
package control
