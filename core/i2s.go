// I2S pin validation and enable sequencing for the SPI units of STM32F4 parts.
//
// I2S pins are mostly the corresponding SPI pins: MOSI carries SD, SCK carries
// CK and NSS carries WS. The master clock output has pins of its own and may
// be left unrouted with NoMasterClock.
package core

import "stm32i2s/chip"

// Bundle is a validated set of I2S pins bound to one unit. It can only be
// produced by Bind, and it stays bound to that unit.
type Bundle struct {
	inst Instance
	ws   AltPin
	ck   AltPin
	mck  AltPin
	sd   AltPin
}

// Instance returns the unit the bundle was validated against.
func (b Bundle) Instance() Instance { return b.inst }

// WS returns the word select pin.
func (b Bundle) WS() AltPin { return b.ws }

// CK returns the bit clock pin.
func (b Bundle) CK() AltPin { return b.ck }

// MCK returns the master clock pin, or NoMasterClock.
func (b Bundle) MCK() AltPin { return b.mck }

// SD returns the serial data pin.
func (b Bundle) SD() AltPin { return b.sd }

// HasMasterClock reports whether MCK is routed to a pin.
func (b Bundle) HasMasterClock() bool { return b.mck != NoMasterClock }

// Pin returns the pin filling role.
func (b Bundle) Pin(role Role) AltPin {
	switch role {
	case RoleWS:
		return b.ws
	case RoleCK:
		return b.ck
	case RoleMCK:
		return b.mck
	default:
		return b.sd
	}
}

// Check validates a WS, CK, MCK, SD assignment for p on part v. Slots are
// checked in that order and the first failure is returned as a *BindError.
// Pin ownership across units is not checked here.
func Check(v chip.Variant, p Peripheral, ws, ck, mck, sd AltPin) error {
	if !v.Valid() {
		return UnsupportedVariant
	}
	slots := [...]AltPin{ws, ck, mck, sd}
	for i, role := range AllRoles {
		if !Supports(v, p, role, slots[i]) {
			return &BindError{Peripheral: p, Role: role, Pin: slots[i]}
		}
	}
	return nil
}

// Bind validates the pins against the compiled part and returns a Bundle
// for inst. The pins are expected to already be in their alternate function
// mode. On failure no bundle is produced and the error unwraps to
// CapabilityMismatch.
func Bind(inst Instance, ws, ck, mck, sd AltPin) (Bundle, error) {
	if err := Check(chip.Selected, inst.p, ws, ck, mck, sd); err != nil {
		if be, ok := err.(*BindError); ok {
			RecordEvent(I2SEvent{EventType: EvtBindReject, Unit: inst.p, Role: be.Role, Pin: be.Pin})
		}
		DebugPrintln("i2s: bind " + inst.String() + " rejected: " + err.Error())
		return Bundle{}, err
	}
	RecordEvent(I2SEvent{EventType: EvtBind, Unit: inst.p})
	DebugPrintln("i2s: bind " + inst.String() + " ws=" + ws.String() + " ck=" + ck.String() +
		" mck=" + mck.String() + " sd=" + sd.String())
	return Bundle{inst: inst, ws: ws, ck: ck, mck: mck, sd: sd}, nil
}

// MustBind is like Bind but panics when the pins do not fit. Use it for
// wiring fixed by the board, where a mismatch is a build defect.
func MustBind(inst Instance, ws, ck, mck, sd AltPin) Bundle {
	b, err := Bind(inst, ws, ck, mck, sd)
	if err != nil {
		panic(err.Error())
	}
	return b
}
