//go:build stm32f4

package main

import (
	"runtime/volatile"
	"unsafe"

	"stm32i2s/core"
)

// RCC and bit-band memory map
const (
	rccBase           = 0x40023800
	periphBase        = 0x40000000
	periphBitBandBase = 0x42000000
)

// BitBandClock implements core.ClockControl through the Cortex-M4 peripheral
// bit-band alias. Each alias word maps to one register bit, so a store is a
// single bus write that the core turns into an atomic read-modify-write.
type BitBandClock struct{}

var _ core.ClockControl = BitBandClock{}

func bitBandAlias(reg core.RCCRegister, bit uint8) *volatile.Register32 {
	addr := uintptr(rccBase) + reg.Offset()
	alias := periphBitBandBase + (addr-periphBase)*32 + uintptr(bit)*4
	return (*volatile.Register32)(unsafe.Pointer(alias))
}

func (BitBandClock) SetBit(reg core.RCCRegister, bit uint8) {
	bitBandAlias(reg, bit).Set(1)
}

func (BitBandClock) ClearBit(reg core.RCCRegister, bit uint8) {
	bitBandAlias(reg, bit).Set(0)
}
