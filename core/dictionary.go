package core

import (
	"sync"

	"stm32i2s/protocol"
)

// Dictionary is the data dictionary the host retrieves with identify: the
// firmware version, its constants and the ID of every command and response.
type Dictionary struct {
	mu        sync.Mutex
	registry  *CommandRegistry
	constants map[string]string
	version   string
	cached    []byte
}

var globalDictionary = NewDictionary(globalRegistry)

// NewDictionary creates a dictionary describing registry
func NewDictionary(registry *CommandRegistry) *Dictionary {
	return &Dictionary{
		registry:  registry,
		constants: make(map[string]string),
		version:   "stm32i2s-" + protocol.Version,
	}
}

// AddConstant adds a constant to the dictionary
func (d *Dictionary) AddConstant(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = value
	d.cached = nil
}

// Generate returns the dictionary as JSON. The result is cached until the
// next AddConstant; commands must all be registered before the first call.
func (d *Dictionary) Generate() []byte {
	// Read the registry before taking our own lock
	cmds := d.registry.Commands()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached == nil {
		d.cached = d.buildJSON(cmds)
	}
	return d.cached
}

// buildJSON writes the JSON by hand; encoding/json is too heavy for the MCU.
func (d *Dictionary) buildJSON(cmds []Command) []byte {
	result := make([]byte, 0, 512)
	result = append(result, `{"version":"`...)
	result = append(result, d.version...)
	result = append(result, `","build_versions":"tinygo","config":{`...)

	names := make([]string, 0, len(d.constants))
	for name := range d.constants {
		names = append(names, name)
	}
	// Insertion sort; the sort package is avoided on the MCU
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	for i, name := range names {
		if i > 0 {
			result = append(result, ',')
		}
		result = append(result, '"')
		result = append(result, name...)
		result = append(result, `":"`...)
		result = append(result, d.constants[name]...)
		result = append(result, '"')
	}

	result = append(result, `},"commands":{`...)
	result = appendMessages(result, cmds, true)
	result = append(result, `},"responses":{`...)
	result = appendMessages(result, cmds, false)
	result = append(result, "}}"...)
	return result
}

// appendMessages writes "name format":id pairs for commands (handler set)
// or responses (no handler).
func appendMessages(result []byte, cmds []Command, commands bool) []byte {
	first := true
	for _, cmd := range cmds {
		if (cmd.Handler != nil) != commands {
			continue
		}
		if !first {
			result = append(result, ',')
		}
		first = false
		result = append(result, '"')
		result = append(result, cmd.Name...)
		if cmd.Format != "" {
			result = append(result, ' ')
			result = append(result, cmd.Format...)
		}
		result = append(result, `":`...)
		result = append(result, itoa(int(cmd.ID))...)
	}
	return result
}

// GetChunk returns up to count bytes of the dictionary starting at offset.
// Past the end it returns an empty chunk, which ends the host's transfer.
func (d *Dictionary) GetChunk(offset uint32, count uint8) []byte {
	data := d.Generate()
	if offset >= uint32(len(data)) {
		return nil
	}
	end := offset + uint32(count)
	if end > uint32(len(data)) {
		end = uint32(len(data))
	}
	return data[offset:end]
}
