//go:build stm32f437

package chip

// Selected is the family this build targets.
const Selected = STM32F437
