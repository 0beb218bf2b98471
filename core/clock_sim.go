package core

import "sync/atomic"

// SimClockControl is an in-memory RCC register file for host builds and
// tests. Bit updates use atomic or/and, so concurrent updates of different
// bits in one register never lose each other.
type SimClockControl struct {
	regs [numRCCRegisters]atomic.Uint32
}

// Ensure the simulation satisfies the contract at compile time.
var _ ClockControl = (*SimClockControl)(nil)

// NewSimClockControl returns a register file with every bit cleared.
func NewSimClockControl() *SimClockControl {
	return &SimClockControl{}
}

func (s *SimClockControl) SetBit(reg RCCRegister, bit uint8) {
	s.regs[reg].Or(1 << bit)
}

func (s *SimClockControl) ClearBit(reg RCCRegister, bit uint8) {
	s.regs[reg].And(^(uint32(1) << bit))
}

// Load returns the current value of reg.
func (s *SimClockControl) Load(reg RCCRegister) uint32 {
	return s.regs[reg].Load()
}

// Enabled reports whether the clock enable bit of p is set.
func (s *SimClockControl) Enabled(p Peripheral) bool {
	b := p.clock()
	return s.Load(b.enReg)&(1<<b.enBit) != 0
}

// InReset reports whether the reset bit of p is set.
func (s *SimClockControl) InReset(p Peripheral) bool {
	b := p.clock()
	return s.Load(b.rstReg)&(1<<b.rstBit) != 0
}
