// Command atvremote is a line-oriented Android TV remote control client.
//
// It discovers TVs advertising the Android TV Remote Protocol v2 service on
// the local network, pairs with one using the on-screen code, and then
// sends key presses over the control channel.
//
// Usage:
//
//	atvremote [flags]
//
// Flags:
//
//	-state-dir string   Directory for the client identity and session state
//	-verbose            Log protocol events to stderr
//
// Interactive commands:
//
//	discover             browse for TVs on the local network
//	connect <index|ip>   connect to a discovered TV, or a raw IPv4 address
//	code <hex6>          submit a pairing code shown on the TV
//	key <name>           send a key press
//	status               show the current connection state
//	disconnect           disconnect from the current TV
//	quit                 exit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/atvremote/atvremote-go/pkg/control"
	"github.com/atvremote/atvremote-go/pkg/discovery"
	"github.com/atvremote/atvremote-go/pkg/identity"
	atvlog "github.com/atvremote/atvremote-go/pkg/log"
	"github.com/atvremote/atvremote-go/pkg/persistence"
	"github.com/atvremote/atvremote-go/pkg/session"
)

func main() {
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the client identity and session state")
	verbose := flag.Bool("verbose", false, "log protocol events to stderr")
	flag.Parse()

	var logger atvlog.Logger = atvlog.NoopLogger{}
	if *verbose {
		logger = atvlog.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	idStore := identity.NewFileStore(*stateDir)
	id, err := idStore.LoadOrCreate()
	if err != nil {
		log.Fatalf("atvremote: load identity: %v", err)
	}

	stateStore := persistence.NewSessionStateStore(filepath.Join(*stateDir, "session.json"))
	sup := session.NewSupervisor(id, stateStore, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := sup.Bootstrap(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
	}

	c := &cli{sup: sup, browser: discovery.NewBrowser()}
	go c.watchState(ctx)
	c.run(ctx)
}

// cli drives the interactive prompt. It owns no protocol logic itself;
// every command is a thin call into the session supervisor or discovery
// browser.
type cli struct {
	sup         *session.Supervisor
	browser     *discovery.Browser
	lastResults []discovery.DeviceEndpoint
}

func (c *cli) run(ctx context.Context) {
	fmt.Println("atvremote ready. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	c.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			c.dispatch(ctx, line)
		}
		if ctx.Err() != nil {
			return
		}
		c.prompt()
	}
}

func (c *cli) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		c.printHelp()
	case "discover":
		c.discover(ctx)
	case "connect":
		c.connect(ctx, args)
	case "code":
		c.code(ctx, args)
	case "key":
		c.key(ctx, args)
	case "status":
		c.status()
	case "disconnect":
		c.sup.Disconnect()
	case "quit", "exit":
		os.Exit(0)
	default:
		fmt.Printf("unknown command %q; type 'help'\n", cmd)
	}
}

func (c *cli) prompt() { fmt.Print("> ") }

func (c *cli) printHelp() {
	fmt.Println(`commands:
  discover             browse for TVs on the local network
  connect <index|ip>   connect to a discovered TV, or a raw IPv4 address
  code <hex6>          submit a pairing code shown on the TV
  key <name>           send a key press (home, back, up, down, left, right,
                       select, volume_up, volume_down, mute, power,
                       play_pause, search)
  status               show the current connection state
  disconnect           disconnect from the current TV
  quit                 exit`)
}

func (c *cli) discover(ctx context.Context) {
	browseCtx, cancel := context.WithTimeout(ctx, discovery.BrowseTimeout)
	defer cancel()
	entries, err := c.browser.Browse(browseCtx)
	if err != nil {
		fmt.Printf("discover: %v\n", err)
		return
	}

	c.lastResults = nil
	for ep := range entries {
		c.lastResults = append(c.lastResults, ep)
		fmt.Printf("[%d] %s (%s)\n", len(c.lastResults)-1, ep.ServiceName, ep.IPv4)
	}
	if len(c.lastResults) == 0 {
		fmt.Println("no TVs found")
	}
}

func (c *cli) connect(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: connect <index|ip>")
		return
	}
	ep, ok := c.resolveTarget(args[0])
	if !ok {
		fmt.Printf("connect: %q is not a discovered index or a valid IPv4 address\n", args[0])
		return
	}
	if err := c.sup.ConnectToEndpoint(ctx, ep); err != nil {
		fmt.Printf("connect: %v\n", err)
		return
	}
	if c.sup.Snapshot().Pairing {
		fmt.Println("enter the pairing code shown on the TV with: code <hex6>")
	}
}

func (c *cli) resolveTarget(arg string) (discovery.DeviceEndpoint, bool) {
	if idx, err := strconv.Atoi(arg); err == nil {
		if idx < 0 || idx >= len(c.lastResults) {
			return discovery.DeviceEndpoint{}, false
		}
		return c.lastResults[idx], true
	}
	if ip := net.ParseIP(arg); ip != nil && ip.To4() != nil {
		return discovery.DeviceEndpoint{IPv4: arg}, true
	}
	return discovery.DeviceEndpoint{}, false
}

func (c *cli) code(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: code <hex6>")
		return
	}
	if err := c.sup.SubmitCode(ctx, args[0]); err != nil {
		fmt.Printf("code: %v\n", err)
		return
	}
	fmt.Println("paired")
}

func (c *cli) key(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: key <name>")
		return
	}
	kc, ok := control.ParseKeycode(args[0])
	if !ok {
		fmt.Printf("key: unknown key %q\n", args[0])
		return
	}
	if err := c.sup.SendKey(ctx, kc); err != nil {
		fmt.Printf("key: %v\n", err)
	}
}

func (c *cli) status() {
	fmt.Println(formatSnapshot(c.sup.Snapshot()))
}

func formatSnapshot(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "state: %s", snap.State)
	switch {
	case snap.DeviceName != "":
		fmt.Fprintf(&b, " device: %s (%s)", snap.DeviceName, snap.DeviceIPv4)
	case snap.DeviceIPv4 != "":
		fmt.Fprintf(&b, " device: %s", snap.DeviceIPv4)
	}
	if snap.Pairing {
		b.WriteString(" [pairing in progress]")
	}
	if snap.ErrorMessage != "" {
		fmt.Fprintf(&b, " error: %s", snap.ErrorMessage)
	}
	return b.String()
}

// watchState prints connection-state transitions as they are published,
// so the prompt stays informative between explicit 'status' calls.
func (c *cli) watchState(ctx context.Context) {
	ch, cancel := c.sup.Watch()
	defer cancel()
	<-ch // the value already reflected by Bootstrap's synchronous call
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			fmt.Printf("\n[%s]\n> ", formatSnapshot(snap))
		case <-ctx.Done():
			return
		}
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".atvremote"
	}
	return filepath.Join(dir, "atvremote")
}
