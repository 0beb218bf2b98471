package core

import (
	"errors"
	"sync"
	"testing"
)

// Codes are part of the host protocol and must not drift.
func TestCodeStrings(t *testing.T) {
	testCases := []struct {
		code Code
		want string
	}{
		{CapabilityMismatch, "capability_mismatch"},
		{UnsupportedVariant, "unsupported_variant"},
		{UnknownBus, "unknown_bus"},
		{UnknownOID, "unknown_oid"},
		{OIDInUse, "oid_in_use"},
		{InvalidParams, "invalid_params"},
	}
	for _, tc := range testCases {
		if tc.code.Error() != tc.want {
			t.Errorf("%q.Error() = %q", tc.want, tc.code.Error())
		}
	}
}

func TestBindErrorMessage(t *testing.T) {
	err := &BindError{Peripheral: SPI1, Role: RoleWS, Pin: PA7.Alt(AF5)}
	want := "capability_mismatch: PA7:AF5 cannot be WS for SPI1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, CapabilityMismatch) {
		t.Error("BindError should unwrap to CapabilityMismatch")
	}
}

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		err  error
		want Code
	}{
		{nil, ""},
		{UnknownOID, UnknownOID},
		{&BindError{Peripheral: SPI2, Role: RoleSD}, CapabilityMismatch},
		{errors.New("boom"), InvalidParams},
	}
	for _, tc := range testCases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Errorf("CodeOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestEventRingWraps(t *testing.T) {
	ClearEventRing()
	defer ClearEventRing()

	for i := 0; i < EventRingSize+3; i++ {
		p := SPI2
		if i >= EventRingSize {
			p = SPI3
		}
		RecordEvent(I2SEvent{EventType: EvtEnable, Unit: p})
	}
	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("got %d events, want %d", len(events), EventRingSize)
	}
	// The newest three are last
	for i := EventRingSize - 3; i < EventRingSize; i++ {
		if events[i].Unit != SPI3 {
			t.Errorf("event %d = %+v, want SPI3", i, events[i])
		}
	}
	if events[0].Unit != SPI2 {
		t.Errorf("oldest event = %+v, want SPI2", events[0])
	}
}

func TestRecordEventConcurrent(t *testing.T) {
	ClearEventRing()
	defer ClearEventRing()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordEvent(I2SEvent{EventType: EvtEnable, Unit: SPI2})
				Events()
			}
		}()
	}
	wg.Wait()

	if got := len(Events()); got != EventRingSize {
		t.Errorf("got %d events, want %d", got, EventRingSize)
	}
}

func TestDumpEventRing(t *testing.T) {
	ClearEventRing()
	defer ClearEventRing()
	defer SetDebugWriter(nil)

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })

	RecordEvent(I2SEvent{EventType: EvtBindReject, Unit: SPI1, Role: RoleCK, Pin: PB3.Alt(AF5)})
	RecordEvent(I2SEvent{EventType: EvtEnable, Unit: SPI1})
	DumpEventRing()

	want := []string{
		"[I2S] === Event Ring Dump ===",
		"[I2S] BIND_REJECT unit=SPI1 role=CK pin=PB3:AF5",
		"[I2S] ENABLE unit=SPI1",
		"[I2S] === End Dump ===",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDebugPrintlnGated(t *testing.T) {
	defer SetDebugWriter(nil)
	defer SetDebugEnabled(false)

	var n int
	SetDebugWriter(func(string) { n++ })
	SetDebugEnabled(false)
	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	if n != 1 {
		t.Errorf("writer called %d times, want 1", n)
	}
}
