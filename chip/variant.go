// Package chip names the STM32F4 part families the firmware can be built for.
//
// Exactly one family is compiled in, chosen by a build tag such as
// -tags stm32f411. TinyGo targets set the tag themselves (stm32f4disco sets
// stm32f407). Host builds without a tag default to STM32F411, the family with
// the full set of I2S instances, so tests and host tools run unmodified.
package chip

import "strings"

// Variant identifies one STM32F4 part family.
type Variant uint8

const (
	STM32F401 Variant = iota
	STM32F405
	STM32F407
	STM32F410
	STM32F411
	STM32F412
	STM32F413
	STM32F415
	STM32F417
	STM32F423
	STM32F427
	STM32F429
	STM32F437
	STM32F439
	STM32F446
	STM32F469
	STM32F479

	numVariants
)

var variantNames = [numVariants]string{
	"stm32f401", "stm32f405", "stm32f407", "stm32f410", "stm32f411",
	"stm32f412", "stm32f413", "stm32f415", "stm32f417", "stm32f423",
	"stm32f427", "stm32f429", "stm32f437", "stm32f439", "stm32f446",
	"stm32f469", "stm32f479",
}

// Valid reports whether v is one of the supported families.
func (v Variant) Valid() bool { return v < numVariants }

// String returns the build tag naming v.
func (v Variant) String() string {
	if !v.Valid() {
		return "unknown"
	}
	return variantNames[v]
}

// All returns every supported family in declaration order.
func All() []Variant {
	out := make([]Variant, numVariants)
	for i := range out {
		out[i] = Variant(i)
	}
	return out
}

// Parse maps a family name back to its Variant. Case is ignored, so both
// the build tag (stm32f407) and the part name (STM32F407) are accepted.
func Parse(name string) (Variant, error) {
	for i, n := range variantNames {
		if strings.EqualFold(n, name) {
			return Variant(i), nil
		}
	}
	return 0, &UnsupportedError{Name: name}
}

// UnsupportedError reports a family name with no pin data.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return "unsupported_variant: " + e.Name
}

// Set is a bit set of variants, one bit per Variant.
type Set uint32

// Of builds a Set from the listed variants.
func Of(vs ...Variant) Set {
	var s Set
	for _, v := range vs {
		s |= 1 << v
	}
	return s
}

// AllVariants contains every supported family.
const AllVariants Set = 1<<numVariants - 1

// Has reports whether v is a member of s.
func (s Set) Has(v Variant) bool {
	return v.Valid() && s&(1<<v) != 0
}

// Except returns s without the listed variants.
func (s Set) Except(vs ...Variant) Set {
	return s &^ Of(vs...)
}
