//go:build stm32f417

package chip

// Selected is the family this build targets.
const Selected = STM32F417
