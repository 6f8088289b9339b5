package discovery

import "time"

// ServiceType is the mDNS/DNS-SD service type advertised by Android TV
// remote-control endpoints.
const ServiceType = "_androidtvremote2._tcp"

// Domain is the mDNS domain browsed for TV endpoints.
const Domain = "local."

// Well-known TCP ports for the two phases of the protocol.
const (
	PairingPort = 6467
	ControlPort = 6466
)

// BrowseTimeout bounds how long a one-shot browse runs before its channel is
// closed if the caller does not cancel sooner.
const BrowseTimeout = 10 * time.Second

// ResolveTimeout bounds resolving a single named service to an address.
const ResolveTimeout = 5 * time.Second

// DeviceEndpoint is a resolved TV reachable on the network.
type DeviceEndpoint struct {
	// ServiceName is the mDNS instance name, typically the TV's
	// friendly name.
	ServiceName string

	// Host is the advertised hostname (informational only; IPv4 is used
	// for connecting).
	Host string

	// IPv4 is the address used to dial the pairing and control ports.
	IPv4 string
}
