package core

// Code is a stable, host-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

const (
	// CapabilityMismatch: a pin cannot carry the claimed role for the unit.
	CapabilityMismatch Code = "capability_mismatch"
	// UnsupportedVariant: no pin data exists for the requested part.
	UnsupportedVariant Code = "unsupported_variant"

	UnknownBus    Code = "unknown_bus"
	UnknownOID    Code = "unknown_oid"
	OIDInUse      Code = "oid_in_use"
	InvalidParams Code = "invalid_params"
)

// BindError describes the first slot of a pin bundle that failed validation.
type BindError struct {
	Peripheral Peripheral
	Role       Role
	Pin        AltPin
}

func (e *BindError) Error() string {
	return string(CapabilityMismatch) + ": " + e.Pin.String() + " cannot be " +
		e.Role.String() + " for " + e.Peripheral.String()
}

func (e *BindError) Unwrap() error { return CapabilityMismatch }

// CodeOf extracts a Code from an error. Errors without one map to InvalidParams.
func CodeOf(err error) Code {
	switch e := err.(type) {
	case nil:
		return ""
	case Code:
		return e
	case *BindError:
		return CapabilityMismatch
	default:
		return InvalidParams
	}
}
