package core

import (
	"io"

	"stm32i2s/protocol"
)

// Link runs the firmware end of the message block protocol: it reassembles
// frames from received bytes, dispatches their commands, and frames
// responses back onto w.
type Link struct {
	registry *CommandRegistry
	decoder  *protocol.FrameDecoder
	w        io.Writer
	seq      uint8

	Dispatched uint32 // blocks whose commands all succeeded
	Failed     uint32 // blocks stopped by a command error
}

// NewLink attaches a link to registry and installs its responder.
func NewLink(registry *CommandRegistry, w io.Writer) *Link {
	l := &Link{registry: registry, w: w}
	l.decoder = protocol.NewFrameDecoder(l.handleFrame)
	registry.SetResponder(l.respond)
	return l
}

// Feed consumes bytes read from the serial port.
func (l *Link) Feed(data []byte) {
	l.decoder.Feed(data)
}

// FrameErrors returns the number of corrupt blocks discarded so far.
func (l *Link) FrameErrors() uint32 {
	return l.decoder.Errors
}

// Reset drops partial input, e.g. after the host reconnects.
func (l *Link) Reset() {
	l.decoder.Reset()
	l.seq = 0
}

func (l *Link) handleFrame(seq uint8, payload []byte) {
	if err := l.registry.DispatchFrame(payload); err != nil {
		l.Failed++
		DebugPrintln("[LINK] command failed: " + err.Error())
		return
	}
	l.Dispatched++
}

func (l *Link) respond(payload []byte) {
	frame, err := protocol.EncodeFrame(l.seq, payload)
	if err != nil {
		DebugPrintln("[LINK] response dropped: " + err.Error())
		return
	}
	l.seq = (l.seq + 1) & protocol.MessageSeqMask
	if _, err := l.w.Write(frame); err != nil {
		DebugPrintln("[LINK] write failed: " + err.Error())
	}
}
