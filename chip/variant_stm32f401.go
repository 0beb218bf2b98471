//go:build stm32f401

package chip

// Selected is the family this build targets.
const Selected = STM32F401
