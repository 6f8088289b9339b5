package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp:    time.Now(),
		ConnectionID: "test-conn",
		Direction:    DirectionIn,
		Layer:        LayerTransport,
		Category:     CategoryMessage,
	}

	logger.Log(event)

	event.Frame = &FrameEvent{Size: 100, Data: []byte{1, 2, 3}}
	logger.Log(event)

	event.Frame = nil
	event.Message = &MessageEvent{FieldNumber: 10, Kind: "pairing_request"}
	logger.Log(event)

	event.Message = nil
	event.StateChange = &StateChangeEvent{Entity: "session", NewState: "connected"}
	logger.Log(event)

	event.StateChange = nil
	event.ControlMsg = &ControlMsgEvent{Type: ControlMsgPingRequest}
	logger.Log(event)

	event.ControlMsg = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
