package cs43l22

// Address is the 7-bit I2C address with AD0 tied low, as on the
// STM32F4DISCOVERY.
const Address = 0x4A

// Registers
const (
	regID          = 0x01
	regPowerCtl1   = 0x02
	regPowerCtl2   = 0x04
	regClocking    = 0x05
	regInterface1  = 0x06
	regPlaybackCtl = 0x0F
	regMasterVolA  = 0x20
	regMasterVolB  = 0x21

	// Undocumented init sequence registers from the errata
	regInit0 = 0x00
	regInit1 = 0x47
	regInit2 = 0x32
)

const (
	chipID     = 0x1C // ID[7:3]
	chipIDMask = 0xF8

	powerDown = 0x01
	powerUp   = 0x9E

	// Headphone channels on, speaker channels off
	outputHeadphone = 0xAF
	// Auto-detect speed, MCLK/2 off
	clockingAuto = 0x80
	// Slave, I2S Philips, 16-bit
	interfaceI2S16 = 0x04

	// Mute both headphone channels in PLAYBACK_CTL2
	playbackMuteHP = 0xC0
)
