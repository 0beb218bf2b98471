//go:build !stm32f410

package core

import "testing"

func TestBindAcceptsDiscoveryWiring(t *testing.T) {
	// STM32F4DISCOVERY audio: I2S3 to the CS43L22
	b, err := Bind(I2S3, PA4.Alt(AF6), PC10.Alt(AF6), PC7.Alt(AF6), PC12.Alt(AF6))
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if b.Instance() != I2S3 || !b.HasMasterClock() {
		t.Errorf("unexpected bundle %+v", b)
	}
}
