//go:build stm32f411

package chip

// Selected is the family this build targets.
const Selected = STM32F411
