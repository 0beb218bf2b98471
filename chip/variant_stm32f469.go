//go:build stm32f469

package chip

// Selected is the family this build targets.
const Selected = STM32F469
