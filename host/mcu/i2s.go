package mcu

import (
	"fmt"
	"time"

	"stm32i2s/core"
	"stm32i2s/protocol"
)

// ResponseTimeout bounds how long the I2S helpers wait for the firmware
var ResponseTimeout = time.Second

// Status is the firmware's view of one configured I2S OID
type Status struct {
	OID     uint8
	Bus     uint8
	Enabled bool
}

// ConfigureI2S sends config_i2s followed by query_i2s in one block. A
// rejected bundle comes back as a *core.BindError.
func (m *MCU) ConfigureI2S(oid uint8, inst uint8, ws, ck, mck, sd core.AltPin) (Status, error) {
	output := protocol.NewScratchOutput()
	err := m.Encode(output, core.CmdConfigI2S, uint32(oid), uint32(inst),
		uint32(ws.Pin), uint32(ws.AF),
		uint32(ck.Pin), uint32(ck.AF),
		uint32(mck.Pin), uint32(mck.AF),
		uint32(sd.Pin), uint32(sd.AF))
	if err != nil {
		return Status{}, err
	}
	if err := m.Encode(output, core.CmdQueryI2S, uint32(oid)); err != nil {
		return Status{}, err
	}
	if err := m.SendPayload(output.Result()); err != nil {
		return Status{}, err
	}
	return m.waitStatus(oid)
}

// EnableI2S clocks a configured OID and confirms it with query_i2s.
func (m *MCU) EnableI2S(oid uint8) (Status, error) {
	output := protocol.NewScratchOutput()
	if err := m.Encode(output, core.CmdI2SEnable, uint32(oid)); err != nil {
		return Status{}, err
	}
	if err := m.Encode(output, core.CmdQueryI2S, uint32(oid)); err != nil {
		return Status{}, err
	}
	if err := m.SendPayload(output.Result()); err != nil {
		return Status{}, err
	}
	st, err := m.waitStatus(oid)
	if err == nil && !st.Enabled {
		err = fmt.Errorf("oid %d not enabled", oid)
	}
	return st, err
}

// QueryI2S asks for the state of an OID.
func (m *MCU) QueryI2S(oid uint8) (Status, error) {
	if err := m.SendCommand(core.CmdQueryI2S, uint32(oid)); err != nil {
		return Status{}, err
	}
	return m.waitStatus(oid)
}

func (m *MCU) waitStatus(oid uint8) (Status, error) {
	for {
		resp, err := m.WaitFor(ResponseTimeout, core.RespI2SStatus, core.RespI2SPinError)
		if err != nil {
			// The firmware answers nothing for unknown OIDs or buses
			return Status{}, fmt.Errorf("oid %d: %w", oid, err)
		}
		if uint8(resp.Args["oid"]) != oid {
			continue
		}
		if resp.Name == core.RespI2SPinError {
			return Status{}, &core.BindError{
				Peripheral: core.Peripheral(resp.Args["bus"]),
				Role:       core.Role(resp.Args["role"]),
				Pin: core.AltPin{
					Pin: core.Pin(resp.Args["pin"]),
					AF:  core.AltFunc(resp.Args["af"]),
				},
			}
		}
		return Status{
			OID:     oid,
			Bus:     uint8(resp.Args["bus"]),
			Enabled: resp.Args["enabled"] != 0,
		}, nil
	}
}
