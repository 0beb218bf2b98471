//go:build tinygo && !(stm32f401 || stm32f405 || stm32f407 || stm32f410 || stm32f411 || stm32f412 || stm32f413 || stm32f415 || stm32f417 || stm32f423 || stm32f427 || stm32f429 || stm32f437 || stm32f439 || stm32f446 || stm32f469 || stm32f479)

package chip

// Firmware must name its part family with a build tag (for example
// -tags stm32f411). Without one there is no pin data to compile in and the
// build stops here.
const Selected = UnsupportedVariant_SetAnSTM32F4BuildTag
