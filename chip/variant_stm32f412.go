//go:build stm32f412

package chip

// Selected is the family this build targets.
const Selected = STM32F412
