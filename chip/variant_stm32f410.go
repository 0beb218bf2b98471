//go:build stm32f410

package chip

// Selected is the family this build targets.
const Selected = STM32F410
