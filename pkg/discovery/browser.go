package discovery

import (
	"context"
	"fmt"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// Browser searches the local network for Android TV remote-control
// endpoints.
type Browser struct {
	// Interface restricts the browse to a single network interface; nil
	// browses on all multicast-capable interfaces.
	Interface *net.Interface
}

// NewBrowser creates a Browser with default (all-interface) settings.
func NewBrowser() *Browser {
	return &Browser{}
}

func (b *Browser) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.Interface != nil {
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*b.Interface}))
	}
	return opts
}

// Browse streams discovered endpoints until ctx is canceled. Entries are
// aggregated by instance name: multiple network interfaces reporting the
// same TV produce one DeviceEndpoint, with later address updates replacing
// earlier ones.
func (b *Browser) Browse(ctx context.Context) (<-chan DeviceEndpoint, error) {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	out := make(chan DeviceEndpoint)

	go func() {
		defer close(out)
		seen := make(map[string]DeviceEndpoint)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				ep, ok := entryToEndpoint(entry)
				if !ok {
					continue
				}
				if existing, found := seen[ep.ServiceName]; found && existing == ep {
					continue
				}
				seen[ep.ServiceName] = ep
				select {
				case out <- ep:
				case <-ctx.Done():
					return
				}
			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.clientOptions()...)
	}()

	return out, nil
}

// FindByName runs a bounded browse and returns the first endpoint whose
// ServiceName matches name. It is a convenience for callers that already
// know which TV they want, avoiding the need to drain the full Browse
// channel.
func (b *Browser) FindByName(ctx context.Context, name string) (DeviceEndpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, ResolveTimeout)
	defer cancel()

	entries, err := b.Browse(ctx)
	if err != nil {
		return DeviceEndpoint{}, err
	}
	for ep := range entries {
		if ep.ServiceName == name {
			return ep, nil
		}
	}
	return DeviceEndpoint{}, fmt.Errorf("discovery: no endpoint named %q found within %s", name, ResolveTimeout)
}

func entryToEndpoint(entry *zeroconf.ServiceEntry) (DeviceEndpoint, bool) {
	if len(entry.AddrIPv4) == 0 {
		return DeviceEndpoint{}, false
	}
	return DeviceEndpoint{
		ServiceName: entry.Instance,
		Host:        entry.HostName,
		IPv4:        entry.AddrIPv4[0].String(),
	}, true
}
