package core

import "errors"

// Pin identifies a GPIO pin using the same numbering as TinyGo's STM32
// machine package: 16 pins per port, PA0 = 0, PB0 = 16 and so on.
type Pin uint8

const (
	portA Pin = iota * 16
	portB
	portC
	portD
	portE
	portF
	portG
	portH
	portI
)

// NoPin marks an unused slot.
const NoPin Pin = 0xff

// Pins referenced by the I2S capability table.
const (
	PA1  = portA + 1
	PA3  = portA + 3
	PA4  = portA + 4
	PA5  = portA + 5
	PA6  = portA + 6
	PA7  = portA + 7
	PA9  = portA + 9
	PA10 = portA + 10
	PA11 = portA + 11
	PA15 = portA + 15

	PB0  = portB + 0
	PB1  = portB + 1
	PB2  = portB + 2
	PB3  = portB + 3
	PB4  = portB + 4
	PB5  = portB + 5
	PB8  = portB + 8
	PB9  = portB + 9
	PB10 = portB + 10
	PB12 = portB + 12
	PB13 = portB + 13
	PB15 = portB + 15

	PC1  = portC + 1
	PC3  = portC + 3
	PC4  = portC + 4
	PC6  = portC + 6
	PC7  = portC + 7
	PC10 = portC + 10
	PC12 = portC + 12

	PD0 = portD + 0
	PD1 = portD + 1
	PD3 = portD + 3
	PD4 = portD + 4
	PD6 = portD + 6

	PE2  = portE + 2
	PE4  = portE + 4
	PE6  = portE + 6
	PE11 = portE + 11
	PE12 = portE + 12
	PE14 = portE + 14

	PI0 = portI + 0
	PI1 = portI + 1
	PI3 = portI + 3
)

// Port returns the port letter of p ('A'..'I').
func (p Pin) Port() byte { return 'A' + byte(p/16) }

// Num returns the pin number within its port.
func (p Pin) Num() uint8 { return uint8(p % 16) }

func (p Pin) String() string {
	if p == NoPin {
		return "none"
	}
	return "P" + string(p.Port()) + utoa(uint32(p.Num()))
}

// AltFunc is a GPIO alternate function index (AF0..AF15).
type AltFunc uint8

const (
	AF5 AltFunc = 5
	AF6 AltFunc = 6
	AF7 AltFunc = 7
)

// AltPin is a pin together with the alternate function it has been switched
// to. It is the identity the validator checks against the capability table.
type AltPin struct {
	Pin Pin
	AF  AltFunc
}

// NoMasterClock fills the master clock slot when MCK is not routed to a pin.
// Every I2S instance accepts it.
var NoMasterClock = AltPin{Pin: NoPin}

// Alt pairs p with alternate function af.
func (p Pin) Alt(af AltFunc) AltPin { return AltPin{Pin: p, AF: af} }

func (a AltPin) String() string {
	if a.Pin == NoPin {
		return "none"
	}
	return a.Pin.String() + ":AF" + utoa(uint32(a.AF))
}

var ErrInvalidPin = errors.New("invalid pin name")

// ParsePin parses names like "PC7" or "pc7". "none" yields NoPin.
func ParsePin(s string) (Pin, error) {
	if s == "none" || s == "NONE" {
		return NoPin, nil
	}
	if len(s) < 3 || len(s) > 4 || (s[0] != 'P' && s[0] != 'p') {
		return 0, ErrInvalidPin
	}
	port := s[1]
	if port >= 'a' && port <= 'z' {
		port -= 'a' - 'A'
	}
	if port < 'A' || port > 'I' {
		return 0, ErrInvalidPin
	}
	n, ok := atou(s[2:])
	if !ok || n > 15 {
		return 0, ErrInvalidPin
	}
	return Pin(port-'A')*16 + Pin(n), nil
}

// ParseAltPin parses "PC7:6" or "PC7:AF6". When the alternate function is
// omitted the returned AltPin has AF 0 and hasAF is false.
func ParseAltPin(s string) (a AltPin, hasAF bool, err error) {
	name, af := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			name, af = s[:i], s[i+1:]
			break
		}
	}
	pin, err := ParsePin(name)
	if err != nil {
		return AltPin{}, false, err
	}
	if pin == NoPin {
		return NoMasterClock, true, nil
	}
	if af == "" {
		return AltPin{Pin: pin}, false, nil
	}
	if len(af) > 2 && (af[:2] == "AF" || af[:2] == "af") {
		af = af[2:]
	}
	n, ok := atou(af)
	if !ok || n > 15 {
		return AltPin{}, false, ErrInvalidPin
	}
	return AltPin{Pin: pin, AF: AltFunc(n)}, true, nil
}
