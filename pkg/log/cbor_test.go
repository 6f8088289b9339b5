package log

import (
	"testing"
	"time"
)

func TestEncodeDecodeEventRoundTrip(t *testing.T) {
	id := uint64(42)
	event := Event{
		Timestamp:    time.Now().UTC(),
		ConnectionID: "conn-1",
		Direction:    DirectionOut,
		Layer:        LayerControl,
		Category:     CategoryControl,
		RemoteAddr:   "192.168.1.5:6466",
		ControlMsg:   &ControlMsgEvent{Type: ControlMsgPingResponse, PingID: &id},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if got.ConnectionID != event.ConnectionID {
		t.Errorf("ConnectionID = %q, want %q", got.ConnectionID, event.ConnectionID)
	}
	if got.ControlMsg == nil || got.ControlMsg.Type != ControlMsgPingResponse {
		t.Fatalf("ControlMsg = %+v, want Type=PingResponse", got.ControlMsg)
	}
	if got.ControlMsg.PingID == nil || *got.ControlMsg.PingID != id {
		t.Errorf("PingID = %v, want %d", got.ControlMsg.PingID, id)
	}
}

func TestEncodeEventOmitsEmptyPayloads(t *testing.T) {
	data, err := EncodeEvent(Event{Timestamp: time.Now(), Category: CategoryState})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	back, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if back.Frame != nil || back.Message != nil || back.StateChange != nil || back.ControlMsg != nil || back.Error != nil {
		t.Errorf("expected all optional payloads nil, got %+v", back)
	}
}
