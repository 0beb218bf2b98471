//go:build !stm32f410

package core

// I2S3 is SPI3 in I2S mode. The STM32F410 has no SPI3.
var I2S3 = declareInstance(SPI3)
