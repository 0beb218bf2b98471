//go:build stm32f4

package main

import (
	"machine"
	"time"

	"stm32i2s/chip"
	"stm32i2s/core"
)

// Set to route debug lines to the link UART. They share the wire with
// message blocks, which the host decoder skips over.
const debugOutput = false

var (
	link      *core.Link
	msgerrors uint32
)

func main() {
	uart := machine.Serial
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	if debugOutput {
		core.SetDebugWriter(func(s string) {
			uart.Write([]byte(s + "\r\n"))
		})
		core.SetDebugEnabled(true)
	}

	core.SetClockControl(BitBandClock{})
	core.SetPinMux(altFuncMux{})
	core.InitCommands()

	link = core.NewLink(core.GetGlobalRegistry(), uart)

	core.DebugPrintln("[I2S] firmware for " + chip.Selected.String())
	if debugOutput {
		for _, f := range core.Facts() {
			core.DebugPrintln("[I2S] pin " + f.String())
		}
	}
	if err := initBoard(); err != nil {
		core.DebugPrintln("[I2S] board init failed: " + err.Error())
	}

	var buf [64]byte
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					link.Reset()
				}
			}()

			n := 0
			for n < len(buf) && uart.Buffered() > 0 {
				b, err := uart.ReadByte()
				if err != nil {
					break
				}
				buf[n] = b
				n++
			}
			if n > 0 {
				link.Feed(buf[:n])
			}
		}()

		// Yield to other goroutines
		time.Sleep(100 * time.Microsecond)
	}
}
