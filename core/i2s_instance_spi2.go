package core

// I2S2 is SPI2 in I2S mode. Every STM32F4 part has it.
var I2S2 = declareInstance(SPI2)
