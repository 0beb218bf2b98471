// Package cs43l22 drives the Cirrus Logic CS43L22 audio DAC over I2C.
//
// The codec is a slave on the I2S bus. Its control port only configures
// power, the serial audio interface format and volume; samples arrive on
// the I2S data line.
package cs43l22

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrNotDetected = errors.New("cs43l22: chip ID mismatch")
)

// Output selects which analog outputs are powered.
type Output uint8

const (
	OutputHeadphone Output = iota
	OutputSpeaker
	OutputBoth
)

// Config holds codec settings applied by Configure.
type Config struct {
	Output Output
	// Volume in the 0-255 master volume scale, 0 uses the default.
	Volume uint8
}

// Device wraps an I2C connection to a CS43L22.
type Device struct {
	bus     drivers.I2C
	Address uint16
	buf     [2]byte
}

// New creates a new CS43L22 connection. The I2C bus must already be
// configured. The codec reset line must be released before Configure.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, Address: Address}
}

// Connected reports whether the chip answers with its ID.
func (d *Device) Connected() bool {
	id, err := d.readReg(regID)
	return err == nil && id&chipIDMask == chipID<<3
}

// Configure powers the codec up for 16-bit I2S slave playback.
func (d *Device) Configure(cfg Config) error {
	if !d.Connected() {
		return ErrNotDetected
	}

	out := uint8(outputHeadphone)
	switch cfg.Output {
	case OutputSpeaker:
		out = 0xFA
	case OutputBoth:
		out = 0xAA
	}

	steps := [][2]byte{
		{regPowerCtl1, powerDown},
		{regPowerCtl2, out},
		{regClocking, clockingAuto},
		{regInterface1, interfaceI2S16},
	}
	for _, s := range steps {
		if err := d.writeReg(s[0], s[1]); err != nil {
			return err
		}
	}

	vol := cfg.Volume
	if vol == 0 {
		vol = 200
	}
	if err := d.SetVolume(vol); err != nil {
		return err
	}
	if err := d.initSequence(); err != nil {
		return err
	}
	return d.writeReg(regPowerCtl1, powerUp)
}

// initSequence is the required power-up register sequence.
func (d *Device) initSequence() error {
	if err := d.writeReg(regInit0, 0x99); err != nil {
		return err
	}
	if err := d.writeReg(regInit1, 0x80); err != nil {
		return err
	}
	v, err := d.readReg(regInit2)
	if err != nil {
		return err
	}
	if err := d.writeReg(regInit2, v|0x80); err != nil {
		return err
	}
	if err := d.writeReg(regInit2, v&^0x80); err != nil {
		return err
	}
	return d.writeReg(regInit0, 0x00)
}

// SetVolume sets both master volume channels. 0 is quietest and 255
// loudest; the register value is offset so 0xE7 maps to 0 dB.
func (d *Device) SetVolume(vol uint8) error {
	reg := vol + 0x19
	if vol > 0xE6 {
		reg = vol - 0xE7
	}
	if err := d.writeReg(regMasterVolA, reg); err != nil {
		return err
	}
	return d.writeReg(regMasterVolB, reg)
}

// Mute silences the headphone outputs.
func (d *Device) Mute(mute bool) error {
	v, err := d.readReg(regPlaybackCtl)
	if err != nil {
		return err
	}
	if mute {
		v |= playbackMuteHP
	} else {
		v &^= playbackMuteHP
	}
	return d.writeReg(regPlaybackCtl, v)
}

// PowerDown puts the codec in its low power state.
func (d *Device) PowerDown() error {
	return d.writeReg(regPowerCtl1, powerDown)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}

func (d *Device) writeReg(reg, value uint8) error {
	d.buf[0] = reg
	d.buf[1] = value
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}
