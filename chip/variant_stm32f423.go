//go:build stm32f423

package chip

// Selected is the family this build targets.
const Selected = STM32F423
