// Package protocol implements the Klipper message block format used between
// the host tool and the I2S firmware: VLQ-encoded integers inside CRC16
// protected frames.
package protocol

// Version is the firmware protocol version
const Version = "0.1.0"

// Message block layout: [len][seq][payload...][crc hi][crc lo][sync]
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F

	// Scratch buffer size for building payloads
	MessageMax = 512
)
