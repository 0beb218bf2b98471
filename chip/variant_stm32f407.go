//go:build stm32f407

package chip

// Selected is the family this build targets.
const Selected = STM32F407
