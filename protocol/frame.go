package protocol

import "errors"

var ErrPayloadTooLarge = errors.New("payload exceeds message block size")

// EncodeFrame wraps payload in a message block with sequence number seq
// (only the low four bits are used).
func EncodeFrame(seq uint8, payload []byte) ([]byte, error) {
	if len(payload) > MessagePayloadMax {
		return nil, ErrPayloadTooLarge
	}
	n := len(payload) + MessageLengthMin
	frame := make([]byte, n)
	frame[MessagePositionLen] = byte(n)
	frame[MessagePositionSeq] = MessageDest | (seq & MessageSeqMask)
	copy(frame[MessageHeaderSize:], payload)
	crc := CRC16(frame[:n-MessageTrailerSize])
	frame[n-MessageTrailerCRC] = byte(crc >> 8)
	frame[n-MessageTrailerCRC+1] = byte(crc)
	frame[n-MessageTrailerSync] = MessageValueSync
	return frame, nil
}

// FrameHandler receives the sequence byte and payload of each valid block.
// The payload aliases the decoder's buffer and is only valid during the call.
type FrameHandler func(seq uint8, payload []byte)

// FrameDecoder reassembles message blocks from a byte stream. Corrupt data
// drops the decoder out of sync until the next sync byte.
type FrameDecoder struct {
	buf      []byte
	synced   bool
	handler  FrameHandler
	Received uint32 // valid blocks delivered
	Errors   uint32 // blocks discarded for bad length, CRC or framing
}

// NewFrameDecoder creates a decoder that starts synchronized.
func NewFrameDecoder(handler FrameHandler) *FrameDecoder {
	return &FrameDecoder{
		buf:     make([]byte, 0, 2*MessageLengthMax),
		synced:  true,
		handler: handler,
	}
}

// Feed consumes received bytes and calls the handler for every complete block.
func (d *FrameDecoder) Feed(data []byte) {
	d.buf = append(d.buf, data...)
	consumed := d.process(d.buf)
	n := copy(d.buf, d.buf[consumed:])
	d.buf = d.buf[:n]
}

func (d *FrameDecoder) process(data []byte) int {
	pos := 0
	for pos < len(data) {
		rest := data[pos:]
		if !d.synced {
			// Look for sync byte to resynchronize
			i := indexByte(rest, MessageValueSync)
			if i < 0 {
				return len(data)
			}
			pos += i + 1
			d.synced = true
			continue
		}

		// Skip leading sync bytes
		if rest[0] == MessageValueSync {
			pos++
			continue
		}
		if len(rest) < MessageLengthMin {
			return pos
		}

		msgLen := int(rest[MessagePositionLen])
		seq := rest[MessagePositionSeq]
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax || seq&^MessageSeqMask != MessageDest {
			d.desync(&pos)
			continue
		}
		if len(rest) < msgLen {
			return pos
		}
		if rest[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync(&pos)
			continue
		}
		frameCRC := uint16(rest[msgLen-MessageTrailerCRC])<<8 | uint16(rest[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(rest[:msgLen-MessageTrailerSize]) {
			d.desync(&pos)
			continue
		}

		d.Received++
		if d.handler != nil {
			d.handler(seq, rest[MessageHeaderSize:msgLen-MessageTrailerSize])
		}
		pos += msgLen
	}
	return pos
}

func (d *FrameDecoder) desync(pos *int) {
	d.Errors++
	d.synced = false
	*pos++
}

// Reset drops buffered bytes and resynchronizes.
func (d *FrameDecoder) Reset() {
	d.buf = d.buf[:0]
	d.synced = true
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}
