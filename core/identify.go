package core

import (
	"stm32i2s/chip"
	"stm32i2s/protocol"
)

// Bootstrap messages. The host assumes these two IDs before it has read
// the dictionary.
const (
	RespIdentify      = "identify_response"
	FmtIdentifyResp   = "offset=%u data=%*s"
	CmdIdentify       = "identify"
	FmtIdentify       = "offset=%u count=%c"
	IdentifyChunkSize = 40

	// ConstVariant names the part the firmware was built for
	ConstVariant = "VARIANT"
)

// RegisterCommands registers identify followed by the I2S commands. Host
// and firmware both start from it so IDs agree before the dictionary is
// read. d may be nil on the host, where identify is never served.
func RegisterCommands(r *CommandRegistry, d *Dictionary) {
	r.RegisterResponse(RespIdentify, FmtIdentifyResp) // ID 0
	r.Register(CmdIdentify, FmtIdentify, func(data *[]byte) error {
		return handleIdentify(r, d, data)
	}) // ID 1
	RegisterI2SCommands(r)
}

// InitCommands registers every command with the global registry and
// publishes the selected variant in the dictionary.
func InitCommands() {
	RegisterCommands(globalRegistry, globalDictionary)
	globalDictionary.AddConstant(ConstVariant, chip.Selected.String())
}

// handleIdentify returns chunks of the data dictionary
// Format: identify offset=%u count=%c
func handleIdentify(r *CommandRegistry, d *Dictionary, data *[]byte) error {
	var offset, count uint32
	if err := protocol.DecodeVLQUints(data, &offset, &count); err != nil {
		return err
	}
	if d == nil {
		return ErrUnknownCommand
	}
	if count > IdentifyChunkSize {
		count = IdentifyChunkSize
	}
	chunk := d.GetChunk(offset, uint8(count))

	r.SendResponse(RespIdentify, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, offset)
		protocol.EncodeVLQBytes(output, chunk)
	})
	return nil
}
