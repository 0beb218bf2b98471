//go:build stm32f4

package main

import (
	"machine"

	"stm32i2s/core"
)

// altFuncMux implements core.PinMux with TinyGo's STM32 GPIO driver.
// core.Pin uses the same port*16+n numbering as machine.Pin.
type altFuncMux struct{}

var _ core.PinMux = altFuncMux{}

func (altFuncMux) ConfigureAltFunc(pin core.AltPin, role core.Role) error {
	mode := machine.PinModeSPISDO
	if role == core.RoleCK || role == core.RoleMCK {
		mode = machine.PinModeSPICLK
	}
	machine.Pin(pin.Pin).ConfigureAltFunc(machine.PinConfig{Mode: mode}, uint8(pin.AF))
	return nil
}
