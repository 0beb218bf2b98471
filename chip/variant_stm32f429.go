//go:build stm32f429

package chip

// Selected is the family this build targets.
const Selected = STM32F429
