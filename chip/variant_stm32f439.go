//go:build stm32f439

package chip

// Selected is the family this build targets.
const Selected = STM32F439
