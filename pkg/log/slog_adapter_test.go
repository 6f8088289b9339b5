package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterLogsControlMessage(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	id := uint64(7)
	adapter.Log(Event{
		ConnectionID: "conn-9",
		Direction:    DirectionOut,
		Layer:        LayerControl,
		Category:     CategoryControl,
		ControlMsg:   &ControlMsgEvent{Type: ControlMsgPingResponse, PingID: &id},
	})

	out := buf.String()
	for _, want := range []string{"conn-9", "OUT", "CONTROL", "PING_RESPONSE", "ping_id=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q, got: %s", want, out)
		}
	}
}
