//go:build stm32f427

package chip

// Selected is the family this build targets.
const Selected = STM32F427
