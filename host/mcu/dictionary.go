package mcu

import (
	"bytes"
	"encoding/json"
	"fmt"

	"stm32i2s/core"
)

// Dictionary represents the parsed MCU dictionary
type Dictionary struct {
	Version       string            `json:"version"`
	BuildVersions string            `json:"build_versions"`
	Config        map[string]string `json:"config"`
	Commands      map[string]int    `json:"commands"`
	Responses     map[string]int    `json:"responses"`
}

// Variant returns the part the firmware was built for
func (d *Dictionary) Variant() string {
	return d.Config[core.ConstVariant]
}

// RetrieveDictionary reads the firmware dictionary with identify and checks
// that every command ID matches the host's own registration.
func (m *MCU) RetrieveDictionary() (*Dictionary, error) {
	if !m.IsConnected() {
		return nil, ErrNotConnected
	}

	var buf bytes.Buffer
	offset := uint32(0)
	for i := 0; i < 1000; i++ {
		if err := m.SendCommand(core.CmdIdentify, offset, core.IdentifyChunkSize); err != nil {
			return nil, err
		}
		resp, err := m.WaitFor(ResponseTimeout, core.RespIdentify)
		if err != nil {
			return nil, fmt.Errorf("identify at offset %d: %w", offset, err)
		}
		if resp.Args["offset"] != offset {
			return nil, fmt.Errorf("offset mismatch: expected %d, got %d", offset, resp.Args["offset"])
		}
		if len(resp.Data) == 0 {
			break
		}
		buf.Write(resp.Data)
		offset += uint32(len(resp.Data))
	}

	dict := &Dictionary{}
	if err := json.Unmarshal(buf.Bytes(), dict); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	if err := m.checkDictionary(dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func (m *MCU) checkDictionary(dict *Dictionary) error {
	for _, cmd := range m.registry.Commands() {
		key := cmd.Name
		if cmd.Format != "" {
			key += " " + cmd.Format
		}
		table := dict.Commands
		if cmd.Handler == nil {
			table = dict.Responses
		}
		id, ok := table[key]
		if !ok {
			return fmt.Errorf("firmware does not know %q", key)
		}
		if id != int(cmd.ID) {
			return fmt.Errorf("%s has id %d on the firmware, %d here", cmd.Name, id, cmd.ID)
		}
	}
	return nil
}

// PrintDictionary prints a summary of the dictionary
func PrintDictionary(d *Dictionary) {
	fmt.Printf("Firmware %s (%s) for %s\n", d.Version, d.BuildVersions, d.Variant())
	fmt.Printf("  %d commands, %d responses\n", len(d.Commands), len(d.Responses))
}
