package core

// Peripheral is an SPI unit that can run in I2S mode. The set is closed;
// which members exist on a given part is decided by the capability table and
// by the Instance values compiled into the build.
type Peripheral uint8

const (
	SPI1 Peripheral = iota + 1
	SPI2
	SPI3
	SPI4
	SPI5
)

// AllPeripherals lists every SPI/I2S unit found anywhere in the family.
var AllPeripherals = [...]Peripheral{SPI1, SPI2, SPI3, SPI4, SPI5}

// Number returns the unit number (1 for SPI1).
func (p Peripheral) Number() uint8 { return uint8(p) }

func (p Peripheral) String() string {
	if p < SPI1 || p > SPI5 {
		return "SPI?"
	}
	return "SPI" + utoa(uint32(p))
}

// clockBits locates the enable and reset bits of one peripheral in the RCC.
type clockBits struct {
	enReg  RCCRegister
	enBit  uint8
	rstReg RCCRegister
	rstBit uint8
}

// clock returns the RCC bits of p. Bit positions are identical on every
// STM32F4 part that has the unit.
func (p Peripheral) clock() clockBits {
	switch p {
	case SPI1:
		return clockBits{APB2ENR, 12, APB2RSTR, 12}
	case SPI2:
		return clockBits{APB1ENR, 14, APB1RSTR, 14}
	case SPI3:
		return clockBits{APB1ENR, 15, APB1RSTR, 15}
	case SPI4:
		return clockBits{APB2ENR, 13, APB2RSTR, 13}
	case SPI5:
		return clockBits{APB2ENR, 20, APB2RSTR, 20}
	}
	panic("core: invalid peripheral " + p.String())
}

// Instance is an I2S-capable unit present on the compiled part. Values are
// only created by this package (I2S1..I2S5, each declared in a file whose
// build tags exclude the parts lacking that unit), so holding an Instance is
// proof that the hardware exists. The zero Instance names no unit; Bind
// rejects it and Enable panics on it.
type Instance struct {
	p Peripheral
}

// Peripheral returns the SPI unit behind inst.
func (inst Instance) Peripheral() Peripheral { return inst.p }

func (inst Instance) String() string {
	return "I2S" + utoa(uint32(inst.p))
}

// instances is filled by the per-unit files in init order.
var instances []Instance

func declareInstance(p Peripheral) Instance {
	inst := Instance{p: p}
	instances = append(instances, inst)
	return inst
}

// Instances returns every I2S unit compiled into this build.
func Instances() []Instance {
	out := make([]Instance, len(instances))
	copy(out, instances)
	return out
}

// InstanceByNumber finds the compiled unit with the given number.
func InstanceByNumber(n uint8) (Instance, bool) {
	for _, inst := range instances {
		if inst.p.Number() == n {
			return inst, true
		}
	}
	return Instance{}, false
}
