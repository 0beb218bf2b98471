//go:build stm32f413

package chip

// Selected is the family this build targets.
const Selected = STM32F413
