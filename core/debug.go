package core

import "sync"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// I2SEvent captures one bind or enable step for post-mortem analysis
type I2SEvent struct {
	EventType uint8      // Event type code
	Unit      Peripheral // SPI unit the event concerns
	Role      Role       // Offending role for EvtBindReject
	Pin       AltPin     // Offending pin for EvtBindReject
}

// Event type codes
const (
	EvtBind       = 1 // bundle accepted
	EvtBindReject = 2 // bundle rejected
	EvtEnable     = 3 // enable sequence issued
)

const (
	EventRingSize = 16 // Keep last 16 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventMu       sync.Mutex
	eventRing     [EventRingSize]I2SEvent
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer. It never allocates but
// takes a lock, so it must not be called from interrupt handlers.
func RecordEvent(evt I2SEvent) {
	eventMu.Lock()
	defer eventMu.Unlock()
	idx := eventRingHead
	eventRing[idx] = evt
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []I2SEvent {
	eventMu.Lock()
	defer eventMu.Unlock()
	out := make([]I2SEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpEventRing outputs the event ring through the debug writer
func DumpEventRing() {
	debugPrintln("[I2S] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.EventType {
		case EvtBind:
			name = "BIND"
		case EvtBindReject:
			name = "BIND_REJECT"
		case EvtEnable:
			name = "ENABLE"
		default:
			name = "UNKNOWN"
		}
		line := "[I2S] " + name + " unit=" + evt.Unit.String()
		if evt.EventType == EvtBindReject {
			line += " role=" + evt.Role.String() + " pin=" + evt.Pin.String()
		}
		debugPrintln(line)
	}
	debugPrintln("[I2S] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	eventMu.Lock()
	defer eventMu.Unlock()
	for i := range eventRing {
		eventRing[i] = I2SEvent{}
	}
	eventRingHead = 0
}
