//go:build stm32f479

package chip

// Selected is the family this build targets.
const Selected = STM32F479
