package core

// Enable switches on the clock of inst and pulses its reset, using the
// ClockControl registered with SetClockControl.
//
// The reset logic is clocked, so the clock is enabled first and reset is
// pulsed afterwards. Each step is a single-bit write that leaves other units'
// bits alone. Calling Enable again re-pulses reset, which aborts any transfer
// in progress; call it once before the unit is used.
func Enable(inst Instance) {
	EnableWith(MustClockControl(), inst)
}

// EnableWith runs the enable sequence for inst against cc. It panics on the
// zero Instance without touching cc.
func EnableWith(cc ClockControl, inst Instance) {
	if inst.p == 0 {
		panic("core: Enable of zero Instance")
	}
	enableSequence(cc, inst.p.clock())
	RecordEvent(I2SEvent{EventType: EvtEnable, Unit: inst.p})
	DebugPrintln("i2s: enabled " + inst.String())
}

func enableSequence(cc ClockControl, b clockBits) {
	// Enable clock, enable reset, clear reset
	cc.SetBit(b.enReg, b.enBit)
	cc.SetBit(b.rstReg, b.rstBit)
	cc.ClearBit(b.rstReg, b.rstBit)
}
