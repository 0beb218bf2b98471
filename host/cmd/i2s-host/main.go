package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"stm32i2s/chip"
	"stm32i2s/core"
	"stm32i2s/host/mcu"
	"stm32i2s/host/serial"
)

var (
	variantName = flag.String("variant", chip.Selected.String(), "STM32F4 part, e.g. stm32f407 or STM32F407")
	list        = flag.Bool("list", false, "Print the I2S pin table for the variant")
	check       = flag.Bool("check", false, "Validate a pin bundle without touching hardware")
	bus         = flag.Uint("bus", 3, "I2S unit number (1-5)")
	wsPin       = flag.String("ws", "PA4", "Word select pin, PIN or PIN:AF")
	ckPin       = flag.String("ck", "PC10", "Bit clock pin")
	mckPin      = flag.String("mck", "PC7", "Master clock pin, or none")
	sdPin       = flag.String("sd", "PC12", "Serial data pin")
	device      = flag.String("device", "", "Serial device; configure and enable the unit on the firmware")
	baud        = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	oid         = flag.Uint("oid", 0, "Object ID for the configured unit")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, s) })
		core.SetDebugEnabled(true)
	}

	var m *mcu.MCU
	if *device != "" {
		m = connect()
		defer m.Close()
	}

	v, err := chip.Parse(*variantName)
	if err != nil {
		fatalf("%v", err)
	}

	if *list {
		printTable(os.Stdout, v)
		if !*check && m == nil {
			return
		}
	}
	if !*check && m == nil {
		flag.Usage()
		os.Exit(2)
	}

	p, pins, err := checkBundle(v, *bus, [4]string{*wsPin, *ckPin, *mckPin, *sdPin})
	if err != nil {
		reportBindError(os.Stderr, v, err)
		os.Exit(1)
	}
	ws, ck, mck, sd := pins[0], pins[1], pins[2], pins[3]
	fmt.Printf("%v I2S%d: WS=%v CK=%v MCK=%v SD=%v ok\n", v, p.Number(), ws, ck, mckName(mck), sd)

	if m == nil {
		return
	}
	if err := configure(m, p, ws, ck, mck, sd); err != nil {
		fatalf("%v", err)
	}
}

// connect opens the firmware link and reads its dictionary. The firmware's
// variant replaces -variant unless the flag was given explicitly.
func connect() *mcu.MCU {
	m := mcu.NewMCU()
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	if err := m.ConnectWithConfig(cfg); err != nil {
		fatalf("%v", err)
	}
	dict, err := m.RetrieveDictionary()
	if err != nil {
		m.Close()
		fatalf("%v", err)
	}
	if *verbose {
		mcu.PrintDictionary(dict)
	}

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "variant" {
			explicit = true
		}
	})
	switch {
	case !explicit:
		*variantName = dict.Variant()
	case !sameVariant(*variantName, dict.Variant()):
		m.Close()
		fatalf("firmware is built for %s, not %s", dict.Variant(), *variantName)
	}
	return m
}

func sameVariant(a, b string) bool {
	va, errA := chip.Parse(a)
	vb, errB := chip.Parse(b)
	return errA == nil && errB == nil && va == vb
}

func configure(m *mcu.MCU, p core.Peripheral, ws, ck, mck, sd core.AltPin) error {
	if _, err := m.ConfigureI2S(uint8(*oid), p.Number(), ws, ck, mck, sd); err != nil {
		return fmt.Errorf("config_i2s: %w", err)
	}
	st, err := m.EnableI2S(uint8(*oid))
	if err != nil {
		return fmt.Errorf("i2s_enable: %w", err)
	}
	fmt.Printf("oid %d: I2S%d enabled\n", st.OID, st.Bus)
	return nil
}

// checkBundle parses the WS, CK, MCK and SD pin flags for unit bus on v and
// validates them as one bundle.
func checkBundle(v chip.Variant, bus uint, names [4]string) (core.Peripheral, [4]core.AltPin, error) {
	var pins [4]core.AltPin
	if bus < 1 || bus > 5 {
		return 0, pins, fmt.Errorf("bus %d out of range", bus)
	}
	p := core.Peripheral(bus)
	for i, role := range core.AllRoles {
		a, err := resolve(v, p, role, names[i])
		if err != nil {
			return p, pins, err
		}
		pins[i] = a
	}
	if err := core.Check(v, p, pins[0], pins[1], pins[2], pins[3]); err != nil {
		return p, pins, err
	}
	return p, pins, nil
}

// resolve parses a pin flag, filling in the alternate function from the
// table when it is omitted.
func resolve(v chip.Variant, p core.Peripheral, role core.Role, s string) (core.AltPin, error) {
	a, hasAF, err := core.ParseAltPin(s)
	if err != nil {
		return core.AltPin{}, fmt.Errorf("-%s %q: %w", strings.ToLower(role.String()), s, err)
	}
	if hasAF {
		return a, nil
	}
	r, ok := core.ResolveAF(v, p, role, a.Pin)
	if !ok {
		return core.AltPin{}, &core.BindError{Peripheral: p, Role: role, Pin: a}
	}
	return r, nil
}

func reportBindError(w io.Writer, v chip.Variant, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var be *core.BindError
	if !errors.As(err, &be) {
		return
	}
	pins := core.PinsFor(v, be.Peripheral, be.Role)
	if len(pins) == 0 {
		fmt.Fprintf(w, "  %v has no I2S on %v\n", v, be.Peripheral)
		return
	}
	fmt.Fprintf(w, "  valid %v pins: %s\n", be.Role, pinList(pins))
}

func printTable(w io.Writer, v chip.Variant) {
	fmt.Fprintf(w, "%v I2S pins\n", v)
	for _, p := range core.Peripherals(v) {
		fmt.Fprintf(w, "I2S%d (%v)\n", p.Number(), p)
		for _, role := range core.AllRoles {
			fmt.Fprintf(w, "  %-4s %s\n", role, pinList(core.PinsFor(v, p, role)))
		}
	}
}

func pinList(pins []core.AltPin) string {
	names := make([]string, len(pins))
	for i, a := range pins {
		names[i] = a.String()
	}
	return strings.Join(names, " ")
}

func mckName(a core.AltPin) string {
	if a == core.NoMasterClock {
		return "none"
	}
	return a.String()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
