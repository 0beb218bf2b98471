//go:build stm32f446

package chip

// Selected is the family this build targets.
const Selected = STM32F446
