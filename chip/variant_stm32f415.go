//go:build stm32f415

package chip

// Selected is the family this build targets.
const Selected = STM32F415
