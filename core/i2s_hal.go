package core

// RCCRegister names one of the RCC registers holding SPI/I2S clock enable
// and reset bits. The names and offsets are the same across STM32F4.
type RCCRegister uint8

const (
	APB1RSTR RCCRegister = iota
	APB2RSTR
	APB1ENR
	APB2ENR

	numRCCRegisters
)

// Offset returns the register offset from the RCC base address.
func (r RCCRegister) Offset() uintptr {
	switch r {
	case APB1RSTR:
		return 0x20
	case APB2RSTR:
		return 0x24
	case APB1ENR:
		return 0x40
	default:
		return 0x44
	}
}

func (r RCCRegister) String() string {
	switch r {
	case APB1RSTR:
		return "APB1RSTR"
	case APB2RSTR:
		return "APB2RSTR"
	case APB1ENR:
		return "APB1ENR"
	case APB2ENR:
		return "APB2ENR"
	default:
		return "RCC?"
	}
}

// ClockControl is the RCC register block as seen by the enable sequencer.
// Platform-specific implementations handle actual hardware control.
//
// SetBit and ClearBit must each be a single indivisible write that leaves
// every other bit of the register untouched, even when another context is
// modifying a different bit of the same register at the same time.
type ClockControl interface {
	// SetBit sets bit of reg to 1
	SetBit(reg RCCRegister, bit uint8)

	// ClearBit sets bit of reg to 0
	ClearBit(reg RCCRegister, bit uint8)
}

// Global singleton used by core code.
var clockControl ClockControl

// SetClockControl is called by target-specific code to register its RCC access.
func SetClockControl(cc ClockControl) {
	clockControl = cc
}

// MustClockControl returns the configured RCC access or panics if missing.
func MustClockControl() ClockControl {
	if clockControl == nil {
		panic("clock control not configured")
	}
	return clockControl
}

// PinMux routes GPIO pins to their alternate function.
type PinMux interface {
	// ConfigureAltFunc switches pin to alternate function mode for role
	ConfigureAltFunc(pin AltPin, role Role) error
}

// Optional; host builds run without one.
var pinMux PinMux

// SetPinMux is called by target-specific code to register its GPIO muxing.
func SetPinMux(m PinMux) {
	pinMux = m
}

// Route configures every pin of b for its role through the registered
// PinMux. Without a PinMux it does nothing.
func Route(b Bundle) error {
	if pinMux == nil {
		return nil
	}
	for _, role := range AllRoles {
		pin := b.Pin(role)
		if pin == NoMasterClock {
			continue
		}
		if err := pinMux.ConfigureAltFunc(pin, role); err != nil {
			return err
		}
	}
	return nil
}
