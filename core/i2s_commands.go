package core

import (
	"sync"

	"stm32i2s/protocol"
)

// I2SDevice is an I2S unit configured by the host
type I2SDevice struct {
	OID     uint8
	Bundle  Bundle
	Enabled bool
}

var (
	i2sMu      sync.Mutex
	i2sDevices = make(map[uint8]*I2SDevice)
)

// Command formats shared by firmware and host so both sides agree on IDs.
const (
	CmdConfigI2S    = "config_i2s"
	FmtConfigI2S    = "oid=%c bus=%c ws_pin=%c ws_af=%c ck_pin=%c ck_af=%c mck_pin=%c mck_af=%c sd_pin=%c sd_af=%c"
	CmdI2SEnable    = "i2s_enable"
	FmtI2SEnable    = "oid=%c"
	CmdQueryI2S     = "query_i2s"
	FmtQueryI2S     = "oid=%c"
	RespI2SStatus   = "i2s_status"
	FmtI2SStatus    = "oid=%c bus=%c enabled=%c"
	RespI2SPinError = "i2s_pin_error"
	FmtI2SPinError  = "oid=%c bus=%c role=%c pin=%c af=%c"
)

// RegisterI2SCommands registers the I2S commands and responses with r.
// Host and firmware call it on fresh registries in the same order, so
// command IDs match; the host still checks them against the identify
// dictionary.
func RegisterI2SCommands(r *CommandRegistry) {
	r.Register(CmdConfigI2S, FmtConfigI2S, func(data *[]byte) error {
		return handleConfigI2S(r, data)
	})
	r.Register(CmdI2SEnable, FmtI2SEnable, handleI2SEnable)
	r.Register(CmdQueryI2S, FmtQueryI2S, func(data *[]byte) error {
		return handleQueryI2S(r, data)
	})
	r.RegisterResponse(RespI2SStatus, FmtI2SStatus)
	r.RegisterResponse(RespI2SPinError, FmtI2SPinError)
}

// handleConfigI2S validates a pin bundle and stores it under an OID
// Format: config_i2s oid=%c bus=%c ws_pin=%c ws_af=%c ck_pin=%c ck_af=%c mck_pin=%c mck_af=%c sd_pin=%c sd_af=%c
func handleConfigI2S(r *CommandRegistry, data *[]byte) error {
	var oid, bus uint32
	var pins [8]uint32
	if err := protocol.DecodeVLQUints(data, &oid, &bus,
		&pins[0], &pins[1], &pins[2], &pins[3], &pins[4], &pins[5], &pins[6], &pins[7]); err != nil {
		return err
	}

	slot := func(i int) AltPin {
		return AltPin{Pin: Pin(pins[2*i]), AF: AltFunc(pins[2*i+1])}
	}

	if bus > 0xff || oid > 0xff {
		return InvalidParams
	}
	for i := 0; i < len(pins); i += 2 {
		if pins[i] > 0xff || pins[i+1] > 15 {
			return InvalidParams
		}
	}
	inst, ok := InstanceByNumber(uint8(bus))
	if !ok {
		return UnknownBus
	}

	if _, exists := GetI2SDevice(uint8(oid)); exists {
		return OIDInUse
	}

	bundle, err := Bind(inst, slot(0), slot(1), slot(2), slot(3))
	if err != nil {
		if be, ok := err.(*BindError); ok {
			r.SendResponse(RespI2SPinError, func(output protocol.OutputBuffer) {
				protocol.EncodeVLQUint(output, oid)
				protocol.EncodeVLQUint(output, bus)
				protocol.EncodeVLQUint(output, uint32(be.Role))
				protocol.EncodeVLQUint(output, uint32(be.Pin.Pin))
				protocol.EncodeVLQUint(output, uint32(be.Pin.AF))
			})
		}
		return err
	}
	return storeI2SDevice(uint8(oid), bundle)
}

// handleI2SEnable runs the enable sequence for a configured OID
// Format: i2s_enable oid=%c
func handleI2SEnable(data *[]byte) error {
	oid, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if oid > 0xff {
		return InvalidParams
	}
	return EnableI2SDevice(uint8(oid))
}

// handleQueryI2S reports the state of a configured OID
// Format: query_i2s oid=%c
func handleQueryI2S(r *CommandRegistry, data *[]byte) error {
	dev, err := decodeI2SDevice(data)
	if err != nil {
		return err
	}

	i2sMu.Lock()
	enabled := dev.Enabled
	i2sMu.Unlock()

	r.SendResponse(RespI2SStatus, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(dev.OID))
		protocol.EncodeVLQUint(output, uint32(dev.Bundle.Instance().Peripheral().Number()))
		if enabled {
			protocol.EncodeVLQUint(output, 1)
		} else {
			protocol.EncodeVLQUint(output, 0)
		}
	})
	return nil
}

func decodeI2SDevice(data *[]byte) (*I2SDevice, error) {
	oid, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	if oid > 0xff {
		return nil, InvalidParams
	}
	dev, ok := GetI2SDevice(uint8(oid))
	if !ok {
		return nil, UnknownOID
	}
	return dev, nil
}

// ConfigureI2SDevice routes a board-defined bundle and stores it under oid
// without going through the command path.
func ConfigureI2SDevice(oid uint8, b Bundle) error {
	return storeI2SDevice(oid, b)
}

// storeI2SDevice claims oid, routes the pins and records the device. The
// claim and the insert happen under one hold of i2sMu; a routing failure
// releases the OID again.
func storeI2SDevice(oid uint8, b Bundle) error {
	i2sMu.Lock()
	defer i2sMu.Unlock()
	if _, exists := i2sDevices[oid]; exists {
		return OIDInUse
	}
	if err := Route(b); err != nil {
		return err
	}
	i2sDevices[oid] = &I2SDevice{OID: oid, Bundle: b}
	return nil
}

// EnableI2SDevice clocks the unit behind a configured OID and marks it
// enabled.
func EnableI2SDevice(oid uint8) error {
	dev, ok := GetI2SDevice(oid)
	if !ok {
		return UnknownOID
	}
	Enable(dev.Bundle.Instance())

	i2sMu.Lock()
	dev.Enabled = true
	i2sMu.Unlock()
	return nil
}

// GetI2SDevice looks up a configured OID
func GetI2SDevice(oid uint8) (*I2SDevice, bool) {
	i2sMu.Lock()
	defer i2sMu.Unlock()
	dev, ok := i2sDevices[oid]
	return dev, ok
}

// ResetI2SDevices forgets every configured OID. Enabled units stay clocked;
// disabling them is not modelled.
func ResetI2SDevices() {
	i2sMu.Lock()
	defer i2sMu.Unlock()
	i2sDevices = make(map[uint8]*I2SDevice)
}
