// Package mcu is the host end of the link to the I2S firmware.
package mcu

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"stm32i2s/core"
	"stm32i2s/host/serial"
	"stm32i2s/protocol"
)

var (
	ErrNotConnected = errors.New("not connected to MCU")
	ErrTimeout      = errors.New("timed out waiting for response")
)

// Response is one decoded message from the firmware.
type Response struct {
	Name string
	Args map[string]uint32
	// Data holds the byte-string argument (%*s), if the format has one
	Data []byte
}

// MCU represents a connection to the I2S firmware
type MCU struct {
	// Same registration as the firmware, used only for IDs and formats
	registry *core.CommandRegistry

	port    io.ReadWriteCloser
	decoder *protocol.FrameDecoder

	mu        sync.Mutex
	seq       uint8
	connected bool

	responses chan Response
	done      chan struct{}
}

// NewMCU creates a new MCU instance (not yet connected)
func NewMCU() *MCU {
	r := core.NewCommandRegistry()
	core.RegisterCommands(r, nil)
	return &MCU{
		registry:  r,
		responses: make(chan Response, 16),
	}
}

// Connect connects to an MCU via serial port
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects to an MCU with a custom serial config
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	// Discard anything the firmware printed before we attached
	if err := port.Flush(); err != nil {
		port.Close()
		return fmt.Errorf("failed to flush serial port: %w", err)
	}
	m.Attach(port)
	return nil
}

// Attach starts using an already open stream.
func (m *MCU) Attach(port io.ReadWriteCloser) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.port = port
	m.decoder = protocol.NewFrameDecoder(m.handleFrame)
	m.done = make(chan struct{})
	m.connected = true
	go m.readLoop(port, m.done)
}

// Close closes the connection to the MCU
func (m *MCU) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil
	}
	m.connected = false
	close(m.done)
	return m.port.Close()
}

// IsConnected returns whether the MCU is connected
func (m *MCU) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MCU) readLoop(port io.Reader, done chan struct{}) {
	buf := make([]byte, 64)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			m.decoder.Feed(buf[:n])
		}
		if err != nil {
			select {
			case <-done:
				return
			default:
			}
			if err == io.EOF {
				return
			}
			// Read timeouts surface as errors on some platforms
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (m *MCU) handleFrame(seq uint8, payload []byte) {
	data := payload
	for len(data) > 0 {
		resp, err := m.decodeResponse(&data)
		if err != nil {
			return
		}
		select {
		case m.responses <- resp:
		default:
			// Nobody is waiting; drop the oldest
			select {
			case <-m.responses:
			default:
			}
			select {
			case m.responses <- resp:
			default:
			}
		}
	}
}

func (m *MCU) decodeResponse(data *[]byte) (Response, error) {
	id, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return Response{}, err
	}
	cmd, ok := m.registry.GetCommand(uint16(id))
	if !ok {
		return Response{}, fmt.Errorf("unknown response id %d", id)
	}
	resp := Response{Name: cmd.Name, Args: make(map[string]uint32)}
	for _, field := range formatFields(cmd.Format) {
		if field.bytes {
			b, err := protocol.DecodeVLQBytes(data)
			if err != nil {
				return Response{}, err
			}
			resp.Data = append([]byte(nil), b...)
			continue
		}
		v, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return Response{}, err
		}
		resp.Args[field.name] = v
	}
	return resp, nil
}

type formatField struct {
	name  string
	bytes bool
}

// formatFields returns the arguments of a "name=%c ..." format.
func formatFields(format string) []formatField {
	var fields []formatField
	for _, f := range strings.Fields(format) {
		if i := strings.IndexByte(f, '='); i > 0 {
			fields = append(fields, formatField{name: f[:i], bytes: strings.HasSuffix(f, "%*s")})
		}
	}
	return fields
}

// Encode builds the payload for one command. args follow the command's
// format order.
func (m *MCU) Encode(output protocol.OutputBuffer, name string, args ...uint32) error {
	cmd, ok := m.registry.GetCommandByName(name)
	if !ok || cmd.Handler == nil {
		return fmt.Errorf("unknown command: %s", name)
	}
	if want := len(formatFields(cmd.Format)); len(args) != want {
		return fmt.Errorf("%s takes %d arguments, got %d", name, want, len(args))
	}
	protocol.EncodeVLQUint(output, uint32(cmd.ID))
	for _, a := range args {
		protocol.EncodeVLQUint(output, a)
	}
	return nil
}

// SendCommand frames and sends a single command
func (m *MCU) SendCommand(name string, args ...uint32) error {
	output := protocol.NewScratchOutput()
	if err := m.Encode(output, name, args...); err != nil {
		return err
	}
	return m.SendPayload(output.Result())
}

// SendPayload frames an already encoded payload
func (m *MCU) SendPayload(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrNotConnected
	}

	frame, err := protocol.EncodeFrame(m.seq, payload)
	if err != nil {
		return err
	}
	m.seq = (m.seq + 1) & protocol.MessageSeqMask
	if _, err := m.port.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// WaitFor returns the next response with one of the given names, skipping
// any others.
func (m *MCU) WaitFor(timeout time.Duration, names ...string) (Response, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case resp := <-m.responses:
			for _, n := range names {
				if resp.Name == n {
					return resp, nil
				}
			}
		case <-deadline.C:
			return Response{}, ErrTimeout
		}
	}
}

// GetDictionary returns the command dictionary shared with the firmware
func (m *MCU) GetDictionary() string {
	return m.registry.GetDictionary()
}
