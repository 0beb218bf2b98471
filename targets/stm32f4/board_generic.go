//go:build stm32f4 && !stm32f4disco

package main

// initBoard has nothing to bring up; the host configures units with
// config_i2s.
func initBoard() error {
	return nil
}
