package core

import (
	"errors"
	"sync"
	"testing"

	"stm32i2s/chip"
	"stm32i2s/protocol"
)

type response struct {
	id   uint16
	args []uint32
}

// newI2STestRegistry returns a registry with the I2S commands, a simulated
// RCC and a responder collecting decoded responses.
func newI2STestRegistry(t *testing.T) (*CommandRegistry, *SimClockControl, *[]response) {
	t.Helper()
	ResetI2SDevices()
	t.Cleanup(ResetI2SDevices)

	prev := clockControl
	sim := NewSimClockControl()
	SetClockControl(sim)
	t.Cleanup(func() { SetClockControl(prev) })

	r := NewCommandRegistry()
	RegisterI2SCommands(r)

	var got []response
	r.SetResponder(func(payload []byte) {
		data := payload
		id, err := protocol.DecodeVLQUint(&data)
		if err != nil {
			t.Fatalf("bad response payload: %v", err)
		}
		resp := response{id: uint16(id)}
		for len(data) > 0 {
			v, err := protocol.DecodeVLQUint(&data)
			if err != nil {
				t.Fatalf("bad response argument: %v", err)
			}
			resp.args = append(resp.args, v)
		}
		got = append(got, resp)
	})
	return r, sim, &got
}

func encodeCommand(t *testing.T, r *CommandRegistry, name string, args ...uint32) []byte {
	t.Helper()
	cmd, ok := r.GetCommandByName(name)
	if !ok {
		t.Fatalf("command %s not registered", name)
	}
	output := protocol.NewScratchOutput()
	protocol.EncodeVLQUint(output, uint32(cmd.ID))
	for _, a := range args {
		protocol.EncodeVLQUint(output, a)
	}
	return append([]byte(nil), output.Result()...)
}

func configArgs(oid, bus uint32, ws, ck, mck, sd AltPin) []uint32 {
	return []uint32{oid, bus,
		uint32(ws.Pin), uint32(ws.AF),
		uint32(ck.Pin), uint32(ck.AF),
		uint32(mck.Pin), uint32(mck.AF),
		uint32(sd.Pin), uint32(sd.AF),
	}
}

func responseID(t *testing.T, r *CommandRegistry, name string) uint16 {
	t.Helper()
	cmd, ok := r.GetCommandByName(name)
	if !ok {
		t.Fatalf("response %s not registered", name)
	}
	return cmd.ID
}

func TestConfigEnableQuery(t *testing.T) {
	for _, inst := range Instances() {
		t.Run(inst.String(), func(t *testing.T) {
			r, sim, got := newI2STestRegistry(t)
			p := inst.Peripheral()
			oid, bus := uint32(p.Number())+10, uint32(p.Number())

			ws, ck, mck, sd := validBundle(chip.Selected, p)
			cfg := encodeCommand(t, r, CmdConfigI2S, configArgs(oid, bus, ws, ck, mck, sd)...)
			if err := r.DispatchFrame(cfg); err != nil {
				t.Fatalf("config_i2s failed: %v", err)
			}
			dev, ok := GetI2SDevice(uint8(oid))
			if !ok || dev.Bundle.Instance() != inst || dev.Enabled {
				t.Fatalf("device not stored correctly: %+v", dev)
			}

			// Query before enable, enable, query again in one block
			frame := encodeCommand(t, r, CmdQueryI2S, oid)
			frame = append(frame, encodeCommand(t, r, CmdI2SEnable, oid)...)
			frame = append(frame, encodeCommand(t, r, CmdQueryI2S, oid)...)
			if err := r.DispatchFrame(frame); err != nil {
				t.Fatalf("dispatch failed: %v", err)
			}

			if !sim.Enabled(p) || sim.InReset(p) {
				t.Errorf("%v not clocked out of reset after i2s_enable", p)
			}

			status := responseID(t, r, RespI2SStatus)
			want := []response{
				{status, []uint32{oid, bus, 0}},
				{status, []uint32{oid, bus, 1}},
			}
			if len(*got) != len(want) {
				t.Fatalf("got %d responses, want %d: %+v", len(*got), len(want), *got)
			}
			for i, w := range want {
				g := (*got)[i]
				if g.id != w.id || len(g.args) != len(w.args) {
					t.Errorf("response %d = %+v, want %+v", i, g, w)
					continue
				}
				for j := range w.args {
					if g.args[j] != w.args[j] {
						t.Errorf("response %d = %+v, want %+v", i, g, w)
						break
					}
				}
			}
		})
	}
}

func TestConfigReportsPinError(t *testing.T) {
	r, _, got := newI2STestRegistry(t)

	// PC7:AF6 is never an I2S2 master clock
	cfg := encodeCommand(t, r, CmdConfigI2S,
		configArgs(1, 2, PB12.Alt(AF5), PB13.Alt(AF5), PC7.Alt(AF6), PB15.Alt(AF5))...)
	err := r.DispatchFrame(cfg)
	if !errors.Is(err, CapabilityMismatch) {
		t.Fatalf("expected CapabilityMismatch, got %v", err)
	}
	if _, ok := GetI2SDevice(1); ok {
		t.Error("rejected bundle was stored")
	}

	if len(*got) != 1 {
		t.Fatalf("got %d responses, want 1", len(*got))
	}
	g := (*got)[0]
	want := []uint32{1, 2, uint32(RoleMCK), uint32(PC7), uint32(AF6)}
	if g.id != responseID(t, r, RespI2SPinError) || len(g.args) != len(want) {
		t.Fatalf("unexpected response %+v", g)
	}
	for i := range want {
		if g.args[i] != want[i] {
			t.Errorf("pin error arg %d = %d, want %d", i, g.args[i], want[i])
		}
	}
}

func TestConfigWithoutMasterClock(t *testing.T) {
	r, _, _ := newI2STestRegistry(t)

	cfg := encodeCommand(t, r, CmdConfigI2S,
		configArgs(0, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))...)
	if err := r.DispatchFrame(cfg); err != nil {
		t.Fatalf("config_i2s failed: %v", err)
	}
	dev, _ := GetI2SDevice(0)
	if dev.Bundle.HasMasterClock() {
		t.Error("bundle should have no master clock")
	}
}

func TestConfigErrors(t *testing.T) {
	r, _, _ := newI2STestRegistry(t)

	good := configArgs(5, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))
	if err := r.DispatchFrame(encodeCommand(t, r, CmdConfigI2S, good...)); err != nil {
		t.Fatalf("config_i2s failed: %v", err)
	}

	badAF := configArgs(6, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))
	badAF[3] = 16

	testCases := []struct {
		name string
		args []uint32
		want Code
	}{
		{"oid in use", good, OIDInUse},
		{"unknown bus", configArgs(7, 9, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5)), UnknownBus},
		{"bus zero", configArgs(7, 0, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5)), UnknownBus},
		{"af out of range", badAF, InvalidParams},
		{"oid out of range", configArgs(300, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5)), InvalidParams},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := r.DispatchFrame(encodeCommand(t, r, CmdConfigI2S, tc.args...))
			if CodeOf(err) != tc.want {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}

	// Truncated arguments
	short := encodeCommand(t, r, CmdConfigI2S, 8, 2, uint32(PB12))
	if err := r.DispatchFrame(short); err == nil {
		t.Error("truncated config_i2s should fail")
	}
}

func TestUnknownOID(t *testing.T) {
	r, sim, _ := newI2STestRegistry(t)

	for _, name := range []string{CmdI2SEnable, CmdQueryI2S} {
		if err := r.DispatchFrame(encodeCommand(t, r, name, 42)); err != UnknownOID {
			t.Errorf("%s: expected UnknownOID, got %v", name, err)
		}
	}
	for _, reg := range []RCCRegister{APB1ENR, APB2ENR, APB1RSTR, APB2RSTR} {
		if sim.Load(reg) != 0 {
			t.Errorf("%v touched by failed enable", reg)
		}
	}
}

func TestConfigureI2SDevice(t *testing.T) {
	ResetI2SDevices()
	defer ResetI2SDevices()

	b := MustBind(I2S2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))
	if err := ConfigureI2SDevice(0, b); err != nil {
		t.Fatalf("ConfigureI2SDevice failed: %v", err)
	}
	if err := ConfigureI2SDevice(0, b); err != OIDInUse {
		t.Errorf("expected OIDInUse, got %v", err)
	}
	if dev, ok := GetI2SDevice(0); !ok || dev.Bundle != b {
		t.Errorf("GetI2SDevice(0) = %+v, %v", dev, ok)
	}
}

func TestConcurrentConfigureClaimsOIDOnce(t *testing.T) {
	r, _, _ := newI2STestRegistry(t)
	b := MustBind(I2S2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))
	cfg := encodeCommand(t, r, CmdConfigI2S,
		configArgs(9, 2, PB12.Alt(AF5), PB13.Alt(AF5), PC6.Alt(AF5), PB15.Alt(AF5))...)

	const workers = 32
	errs := make(chan error, 2*workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- ConfigureI2SDevice(9, b)
		}()
		go func() {
			defer wg.Done()
			errs <- r.DispatchFrame(cfg)
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch err {
		case nil:
			ok++
		case OIDInUse:
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d configurations claimed OID 9, want 1", ok)
	}
}

type muxCall struct {
	pin  AltPin
	role Role
}

type recordingMux struct {
	calls []muxCall
	fail  error
}

func (m *recordingMux) ConfigureAltFunc(pin AltPin, role Role) error {
	m.calls = append(m.calls, muxCall{pin, role})
	return m.fail
}

func TestConfigRoutesPins(t *testing.T) {
	r, _, _ := newI2STestRegistry(t)
	mux := &recordingMux{}
	SetPinMux(mux)
	defer SetPinMux(nil)

	cfg := encodeCommand(t, r, CmdConfigI2S,
		configArgs(4, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))...)
	if err := r.DispatchFrame(cfg); err != nil {
		t.Fatalf("config_i2s failed: %v", err)
	}
	want := []muxCall{
		{PB12.Alt(AF5), RoleWS},
		{PB13.Alt(AF5), RoleCK},
		{PB15.Alt(AF5), RoleSD},
	}
	if len(mux.calls) != len(want) {
		t.Fatalf("mux calls %+v, want %+v", mux.calls, want)
	}
	for i := range want {
		if mux.calls[i] != want[i] {
			t.Errorf("mux call %d = %+v, want %+v", i, mux.calls[i], want[i])
		}
	}

	// Rejected bundles never reach the pins
	mux.calls = nil
	bad := encodeCommand(t, r, CmdConfigI2S,
		configArgs(5, 2, PA7.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))...)
	if err := r.DispatchFrame(bad); err == nil {
		t.Fatal("bad bundle accepted")
	}
	if len(mux.calls) != 0 {
		t.Errorf("rejected bundle routed: %+v", mux.calls)
	}

	// A mux failure leaves the OID free
	mux.fail = errors.New("pin busy")
	again := encodeCommand(t, r, CmdConfigI2S,
		configArgs(6, 2, PB12.Alt(AF5), PB13.Alt(AF5), NoMasterClock, PB15.Alt(AF5))...)
	if err := r.DispatchFrame(again); err != mux.fail {
		t.Errorf("expected mux error, got %v", err)
	}
	if _, ok := GetI2SDevice(6); ok {
		t.Error("OID stored despite mux failure")
	}
}
