//go:build stm32f4disco

package main

import (
	"machine"
	"time"

	"stm32i2s/core"
	"stm32i2s/drivers/cs43l22"
)

// OID the on-board codec's I2S unit is registered under
const codecOID = 0

// CS43L22 control and reset lines
const (
	codecReset = machine.PD4
	codecSCL   = machine.PB6
	codecSDA   = machine.PB9
)

var codec *cs43l22.Device

// initBoard brings up the audio path: I2S3 on PA4/PC10/PC7/PC12 feeding
// the CS43L22.
func initBoard() error {
	bundle, err := core.Bind(core.I2S3,
		core.PA4.Alt(core.AF6),
		core.PC10.Alt(core.AF6),
		core.PC7.Alt(core.AF6),
		core.PC12.Alt(core.AF6))
	if err != nil {
		return err
	}
	if err := core.ConfigureI2SDevice(codecOID, bundle); err != nil {
		return err
	}
	if err := core.EnableI2SDevice(codecOID); err != nil {
		return err
	}

	// Hold the codec in reset while the bus comes up
	codecReset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	codecReset.Low()
	err = machine.I2C1.Configure(machine.I2CConfig{
		SCL:       codecSCL,
		SDA:       codecSDA,
		Frequency: 100 * machine.KHz,
	})
	if err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	codecReset.High()
	time.Sleep(time.Millisecond)

	codec = cs43l22.New(machine.I2C1)
	if err := codec.Configure(cs43l22.Config{Output: cs43l22.OutputHeadphone}); err != nil {
		return err
	}
	core.DebugPrintln("[I2S] CS43L22 ready on I2S3")
	return nil
}
