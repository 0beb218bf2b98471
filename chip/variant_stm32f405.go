//go:build stm32f405

package chip

// Selected is the family this build targets.
const Selected = STM32F405
