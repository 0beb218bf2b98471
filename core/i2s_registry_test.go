package core

import (
	"testing"

	"stm32i2s/chip"
)

func TestRegistryHasNoConflictingAltFuncs(t *testing.T) {
	type slot struct {
		p    Peripheral
		role Role
		pin  Pin
	}
	for _, v := range chip.All() {
		seen := make(map[slot]AltFunc)
		for _, f := range FactsFor(v) {
			k := slot{f.Peripheral, f.Role, f.Pin.Pin}
			if af, ok := seen[k]; ok && af != f.Pin.AF {
				t.Errorf("%v: %v %v %v has AF%d and AF%d", v, f.Peripheral, f.Role, f.Pin.Pin, af, f.Pin.AF)
			}
			seen[k] = f.Pin.AF
		}
	}
}

func TestRegistryRowsAreUnique(t *testing.T) {
	for _, v := range chip.All() {
		seen := make(map[Fact]bool)
		for _, f := range FactsFor(v) {
			if seen[f] {
				t.Errorf("%v: duplicate fact %v", v, f)
			}
			seen[f] = true
		}
	}
}

func TestFactsOnlyForPresentPeripherals(t *testing.T) {
	for _, v := range chip.All() {
		for _, f := range FactsFor(v) {
			if !HasPeripheral(v, f.Peripheral) {
				t.Errorf("%v: fact %v for absent unit", v, f)
			}
		}
	}
}

func TestEveryPeripheralIsUsable(t *testing.T) {
	// Each unit present on a part needs at least one WS, CK and SD pin.
	for _, v := range chip.All() {
		for _, p := range Peripherals(v) {
			for _, role := range []Role{RoleWS, RoleCK, RoleSD} {
				if len(PinsFor(v, p, role)) == 0 {
					t.Errorf("%v: %v has no %v pin", v, p, role)
				}
			}
		}
	}
}

func TestPeripheralsPerVariant(t *testing.T) {
	testCases := []struct {
		v    chip.Variant
		want []Peripheral
	}{
		{chip.STM32F401, []Peripheral{SPI2, SPI3}},
		{chip.STM32F407, []Peripheral{SPI2, SPI3}},
		{chip.STM32F410, []Peripheral{SPI1, SPI2, SPI5}},
		{chip.STM32F411, []Peripheral{SPI1, SPI2, SPI3, SPI4, SPI5}},
		{chip.STM32F446, []Peripheral{SPI1, SPI2, SPI3}},
		{chip.STM32F479, []Peripheral{SPI2, SPI3}},
	}

	for _, tc := range testCases {
		got := Peripherals(tc.v)
		if len(got) != len(tc.want) {
			t.Errorf("Peripherals(%v) = %v, want %v", tc.v, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Peripherals(%v) = %v, want %v", tc.v, got, tc.want)
				break
			}
		}
	}
}

func containsPin(pins []AltPin, want AltPin) bool {
	for _, p := range pins {
		if p == want {
			return true
		}
	}
	return false
}

func TestF410MasterClockMovesToI2S1(t *testing.T) {
	f410 := PinsFor(chip.STM32F410, SPI1, RoleMCK)
	if !containsPin(f410, PC7.Alt(AF6)) || !containsPin(f410, PB10.Alt(AF6)) {
		t.Errorf("F410 I2S1 MCK pins = %v, want PC7:AF6 and PB10:AF6", f410)
	}
	if pins := PinsFor(chip.STM32F410, SPI3, RoleMCK); len(pins) != 0 {
		t.Errorf("F410 has no SPI3, got MCK pins %v", pins)
	}

	f411 := PinsFor(chip.STM32F411, SPI3, RoleMCK)
	if !containsPin(f411, PC7.Alt(AF6)) || !containsPin(f411, PB10.Alt(AF6)) {
		t.Errorf("F411 I2S3 MCK pins = %v, want PC7:AF6 and PB10:AF6", f411)
	}
	if containsPin(PinsFor(chip.STM32F411, SPI1, RoleMCK), PC7.Alt(AF6)) {
		t.Error("F411 must not route PC7 MCK to I2S1")
	}
}

func TestLargerPackagesExposeMorePins(t *testing.T) {
	if !containsPin(PinsFor(chip.STM32F407, SPI2, RoleWS), PI0.Alt(AF5)) {
		t.Error("F407 should offer PI0 as I2S2 WS")
	}
	if containsPin(PinsFor(chip.STM32F401, SPI2, RoleWS), PI0.Alt(AF5)) {
		t.Error("F401 has no port I")
	}
	if !containsPin(PinsFor(chip.STM32F423, SPI2, RoleWS), PA11.Alt(AF5)) {
		t.Error("F423 should offer PA11 as I2S2 WS")
	}
	if containsPin(PinsFor(chip.STM32F411, SPI2, RoleWS), PA11.Alt(AF5)) {
		t.Error("F411 does not offer PA11 as I2S2 WS")
	}
}

func TestSDAndCKFollowSPIPins(t *testing.T) {
	if !containsPin(PinsFor(chip.STM32F407, SPI3, RoleSD), PC12.Alt(AF6)) {
		t.Error("SPI3 MOSI PC12 should serve as I2S3 SD")
	}
	if !containsPin(PinsFor(chip.STM32F407, SPI3, RoleCK), PC10.Alt(AF6)) {
		t.Error("SPI3 SCK PC10 should serve as I2S3 CK")
	}
}

func TestUnsupportedVariantHasNoFacts(t *testing.T) {
	bogus := chip.Variant(99)
	if facts := FactsFor(bogus); facts != nil {
		t.Errorf("FactsFor(bogus) = %v, want nil", facts)
	}
	if ps := Peripherals(bogus); len(ps) != 0 {
		t.Errorf("Peripherals(bogus) = %v, want none", ps)
	}
}

func TestResolveAF(t *testing.T) {
	got, ok := ResolveAF(chip.STM32F411, SPI4, RoleWS, PE4)
	if !ok || got != PE4.Alt(AF5) {
		t.Errorf("ResolveAF(F411, SPI4, WS, PE4) = %v, %v", got, ok)
	}
	got, ok = ResolveAF(chip.STM32F411, SPI5, RoleWS, PE4)
	if !ok || got != PE4.Alt(AF6) {
		t.Errorf("ResolveAF(F411, SPI5, WS, PE4) = %v, %v", got, ok)
	}
	if _, ok := ResolveAF(chip.STM32F401, SPI4, RoleWS, PE4); ok {
		t.Error("F401 has no I2S4")
	}
}

func TestInstancesMatchSelectedVariant(t *testing.T) {
	want := Peripherals(chip.Selected)
	got := Instances()
	if len(got) != len(want) {
		t.Fatalf("compiled instances %v, want units %v", got, want)
	}
	for i, inst := range got {
		if inst.Peripheral() != want[i] {
			t.Errorf("instance %d = %v, want %v", i, inst.Peripheral(), want[i])
		}
		if byNum, ok := InstanceByNumber(want[i].Number()); !ok || byNum != inst {
			t.Errorf("InstanceByNumber(%d) = %v, %v", want[i].Number(), byNum, ok)
		}
	}
	if _, ok := InstanceByNumber(9); ok {
		t.Error("InstanceByNumber(9) should fail")
	}
}

func TestSelectedPartHelpers(t *testing.T) {
	facts := Facts()
	if len(facts) != len(FactsFor(chip.Selected)) {
		t.Fatalf("Facts() has %d entries, FactsFor(Selected) %d", len(facts), len(FactsFor(chip.Selected)))
	}
	for _, inst := range Instances() {
		for _, role := range AllRoles {
			got := Pins(inst, role)
			want := PinsFor(chip.Selected, inst.Peripheral(), role)
			if len(got) != len(want) {
				t.Errorf("Pins(%v, %v) = %v, want %v", inst, role, got, want)
				continue
			}
			for _, a := range got {
				if !containsPin(want, a) {
					t.Errorf("Pins(%v, %v) has %v", inst, role, a)
				}
			}
		}
	}
}

func TestPinNames(t *testing.T) {
	testCases := []struct {
		name string
		pin  Pin
	}{
		{"PA0", portA},
		{"PA15", PA15},
		{"PC7", PC7},
		{"pe11", PE11},
		{"PI3", PI3},
		{"none", NoPin},
	}
	for _, tc := range testCases {
		got, err := ParsePin(tc.name)
		if err != nil {
			t.Errorf("ParsePin(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.pin {
			t.Errorf("ParsePin(%q) = %d, want %d", tc.name, got, tc.pin)
		}
	}
	if PC7.String() != "PC7" || PC7.Alt(AF6).String() != "PC7:AF6" {
		t.Errorf("unexpected names %q %q", PC7.String(), PC7.Alt(AF6).String())
	}

	for _, bad := range []string{"", "P", "PZ1", "PA16", "XA1", "PA-1", "PA123"} {
		if _, err := ParsePin(bad); err == nil {
			t.Errorf("ParsePin(%q) should fail", bad)
		}
	}
}

func TestParseAltPin(t *testing.T) {
	a, hasAF, err := ParseAltPin("PC7:6")
	if err != nil || !hasAF || a != PC7.Alt(AF6) {
		t.Errorf("ParseAltPin(PC7:6) = %v, %v, %v", a, hasAF, err)
	}
	a, hasAF, err = ParseAltPin("PB12:AF5")
	if err != nil || !hasAF || a != PB12.Alt(AF5) {
		t.Errorf("ParseAltPin(PB12:AF5) = %v, %v, %v", a, hasAF, err)
	}
	a, hasAF, err = ParseAltPin("PA4")
	if err != nil || hasAF || a.Pin != PA4 {
		t.Errorf("ParseAltPin(PA4) = %v, %v, %v", a, hasAF, err)
	}
	a, _, err = ParseAltPin("none")
	if err != nil || a != NoMasterClock {
		t.Errorf("ParseAltPin(none) = %v, %v", a, err)
	}
	if _, _, err := ParseAltPin("PA4:16"); err == nil {
		t.Error("AF16 should be rejected")
	}
}
