package core

import "stm32i2s/chip"

// Role is the signal a pin carries for an I2S unit.
type Role uint8

const (
	RoleSD  Role = iota // serial data
	RoleWS              // word select (left/right clock)
	RoleCK              // bit clock
	RoleMCK             // master clock output
)

// AllRoles lists the roles in bundle order (WS, CK, MCK, SD).
var AllRoles = [...]Role{RoleWS, RoleCK, RoleMCK, RoleSD}

func (r Role) String() string {
	switch r {
	case RoleSD:
		return "SD"
	case RoleWS:
		return "WS"
	case RoleCK:
		return "CK"
	case RoleMCK:
		return "MCK"
	default:
		return "role?"
	}
}

// Fact states that Pin, switched to its alternate function, can carry Role
// for Peripheral.
type Fact struct {
	Peripheral Peripheral
	Role       Role
	Pin        AltPin
}

func (f Fact) String() string {
	return f.Peripheral.String() + " " + f.Role.String() + " " + f.Pin.String()
}

// capabilityRow is one line of the datasheet alternate function map.
type capabilityRow struct {
	p        Peripheral
	role     Role
	pin      Pin
	af       AltFunc
	variants chip.Set
}

var (
	anyF4     = chip.AllVariants
	notF410   = chip.AllVariants.Except(chip.STM32F410)
	f410to423 = chip.Of(chip.STM32F410, chip.STM32F411, chip.STM32F412, chip.STM32F413, chip.STM32F423)
	f411to423 = chip.Of(chip.STM32F411, chip.STM32F412, chip.STM32F413, chip.STM32F423)
	withPortI = chip.Of(chip.STM32F405, chip.STM32F407, chip.STM32F415, chip.STM32F417, chip.STM32F427,
		chip.STM32F429, chip.STM32F437, chip.STM32F439, chip.STM32F469, chip.STM32F479)
	f446 = chip.Of(chip.STM32F446)
)

// i2sUnits records which parts can run each SPI unit in I2S mode. Rows for
// a unit are ignored on parts outside its set.
var i2sUnits = [...]chip.Set{
	SPI1: f410to423 | f446,
	SPI2: anyF4,
	SPI3: notF410,
	SPI4: f411to423,
	SPI5: f410to423,
}

// capabilityTable holds every pin/role pairing in the family. CK rows are the
// SPI SCK pins and SD rows the SPI MOSI pins of the same unit.
var capabilityTable = [...]capabilityRow{
	// Master clock
	{SPI2, RoleMCK, PC6, AF5, anyF4},
	{SPI2, RoleMCK, PA3, AF5, f411to423},
	{SPI2, RoleMCK, PA6, AF6, f411to423},
	{SPI3, RoleMCK, PB10, AF6, f411to423},
	{SPI1, RoleMCK, PC4, AF5, chip.Of(chip.STM32F412, chip.STM32F413, chip.STM32F423, chip.STM32F446)},
	{SPI3, RoleMCK, PC7, AF6, notF410},
	// The F410 routes PC7 and PB10 master clock to I2S1 instead of I2S3.
	{SPI1, RoleMCK, PC7, AF6, chip.Of(chip.STM32F410)},
	{SPI1, RoleMCK, PB10, AF6, chip.Of(chip.STM32F410)},

	// Word select
	{SPI2, RoleWS, PB9, AF5, anyF4},
	{SPI2, RoleWS, PB12, AF5, anyF4},
	{SPI2, RoleWS, PA11, AF5, chip.Of(chip.STM32F413, chip.STM32F423)},
	{SPI2, RoleWS, PB4, AF7, f446},
	{SPI2, RoleWS, PD1, AF7, f446},
	{SPI2, RoleWS, PI0, AF5, withPortI},
	{SPI3, RoleWS, PA4, AF6, notF410},
	{SPI3, RoleWS, PA15, AF6, notF410},
	{SPI1, RoleWS, PA4, AF5, f410to423 | f446},
	{SPI1, RoleWS, PA15, AF5, f410to423 | f446},
	{SPI4, RoleWS, PB12, AF6, f411to423},
	{SPI4, RoleWS, PE4, AF5, f411to423},
	{SPI4, RoleWS, PE11, AF5, f411to423},
	{SPI5, RoleWS, PE4, AF6, f411to423},
	{SPI5, RoleWS, PE11, AF6, f411to423},
	{SPI5, RoleWS, PB1, AF6, f410to423},

	// Bit clock
	{SPI1, RoleCK, PA5, AF5, anyF4},
	{SPI1, RoleCK, PB3, AF5, anyF4},
	{SPI2, RoleCK, PB10, AF5, anyF4},
	{SPI2, RoleCK, PB13, AF5, anyF4},
	{SPI2, RoleCK, PC7, AF5, f410to423 | f446},
	{SPI2, RoleCK, PD3, AF5, f411to423 | f446},
	{SPI2, RoleCK, PA9, AF5, f446},
	{SPI2, RoleCK, PI1, AF5, withPortI},
	{SPI3, RoleCK, PB3, AF6, notF410},
	{SPI3, RoleCK, PC10, AF6, notF410},
	{SPI3, RoleCK, PB12, AF7, f411to423},
	{SPI4, RoleCK, PB13, AF6, f411to423},
	{SPI4, RoleCK, PE2, AF5, f411to423},
	{SPI4, RoleCK, PE12, AF5, f411to423},
	{SPI5, RoleCK, PB0, AF6, f410to423},
	{SPI5, RoleCK, PE2, AF6, f411to423},
	{SPI5, RoleCK, PE12, AF6, f411to423},

	// Serial data
	{SPI1, RoleSD, PA7, AF5, anyF4},
	{SPI1, RoleSD, PB5, AF5, anyF4},
	{SPI2, RoleSD, PB15, AF5, anyF4},
	{SPI2, RoleSD, PC3, AF5, anyF4},
	{SPI2, RoleSD, PC1, AF7, f446},
	{SPI2, RoleSD, PI3, AF5, withPortI},
	{SPI3, RoleSD, PB5, AF6, notF410},
	{SPI3, RoleSD, PC12, AF6, notF410},
	{SPI3, RoleSD, PD6, AF5, f411to423 | f446},
	{SPI3, RoleSD, PB0, AF7, f446},
	{SPI3, RoleSD, PB2, AF7, f446},
	{SPI3, RoleSD, PC1, AF5, f446},
	{SPI3, RoleSD, PD0, AF6, f446},
	{SPI4, RoleSD, PA1, AF5, f411to423},
	{SPI4, RoleSD, PE6, AF5, f411to423},
	{SPI4, RoleSD, PE14, AF5, f411to423},
	{SPI5, RoleSD, PA10, AF6, f410to423},
	{SPI5, RoleSD, PB8, AF6, f410to423},
	{SPI5, RoleSD, PE6, AF6, f411to423},
	{SPI5, RoleSD, PE14, AF6, f411to423},
}

// HasPeripheral reports whether p can run in I2S mode on v.
func HasPeripheral(v chip.Variant, p Peripheral) bool {
	return p >= SPI1 && p <= SPI5 && i2sUnits[p].Has(v)
}

// Peripherals returns the I2S-capable units of v, lowest first. It is empty
// for an unsupported variant.
func Peripherals(v chip.Variant) []Peripheral {
	var out []Peripheral
	for _, p := range AllPeripherals {
		if HasPeripheral(v, p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *capabilityRow) appliesTo(v chip.Variant) bool {
	return r.variants.Has(v) && HasPeripheral(v, r.p)
}

// FactsFor returns every capability of variant v in table order. It returns
// nil when v is not a supported variant.
func FactsFor(v chip.Variant) []Fact {
	var out []Fact
	for i := range capabilityTable {
		r := &capabilityTable[i]
		if r.appliesTo(v) {
			out = append(out, Fact{Peripheral: r.p, Role: r.role, Pin: r.pin.Alt(r.af)})
		}
	}
	return out
}

// PinsFor returns the pins that can fill role for p on v. The result is
// empty when the combination is impossible on that part.
func PinsFor(v chip.Variant, p Peripheral, role Role) []AltPin {
	var out []AltPin
	for i := range capabilityTable {
		r := &capabilityTable[i]
		if r.p == p && r.role == role && r.appliesTo(v) {
			out = append(out, r.pin.Alt(r.af))
		}
	}
	return out
}

// Supports reports whether pin may fill role for p on v. NoMasterClock is
// accepted in the master clock slot of every unit present on v.
func Supports(v chip.Variant, p Peripheral, role Role, pin AltPin) bool {
	if !HasPeripheral(v, p) {
		return false
	}
	if pin == NoMasterClock {
		return role == RoleMCK
	}
	for i := range capabilityTable {
		r := &capabilityTable[i]
		if r.p == p && r.role == role && r.pin == pin.Pin && r.af == pin.AF && r.variants.Has(v) {
			return true
		}
	}
	return false
}

// ResolveAF looks up the alternate function pin needs to carry role for p on
// v. A pin never has two alternate functions for the same unit and role.
func ResolveAF(v chip.Variant, p Peripheral, role Role, pin Pin) (AltPin, bool) {
	for i := range capabilityTable {
		r := &capabilityTable[i]
		if r.p == p && r.role == role && r.pin == pin && r.appliesTo(v) {
			return pin.Alt(r.af), true
		}
	}
	return AltPin{}, false
}

// Facts returns every capability of the compiled part.
func Facts() []Fact { return FactsFor(chip.Selected) }

// Pins returns the pins that can fill role for inst on the compiled part.
func Pins(inst Instance, role Role) []AltPin { return PinsFor(chip.Selected, inst.p, role) }
