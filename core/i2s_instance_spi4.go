//go:build !(stm32f401 || stm32f405 || stm32f407 || stm32f410 || stm32f415 || stm32f417 || stm32f427 || stm32f429 || stm32f437 || stm32f439 || stm32f446 || stm32f469 || stm32f479)

package core

// I2S4 is SPI4 in I2S mode (STM32F411, F412, F413 and F423).
var I2S4 = declareInstance(SPI4)
