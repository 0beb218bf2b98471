package core

import (
	"errors"
	"sync"

	"stm32i2s/protocol"
)

// CommandHandler is a function that handles a command with raw frame data
// The handler is responsible for decoding its own arguments from the data pointer
type CommandHandler func(data *[]byte) error

// Command represents a Klipper command
type Command struct {
	ID      uint16
	Name    string
	Format  string // Format string for dictionary (e.g., "oid=%c pin=%u")
	Handler CommandHandler
}

// Responder receives encoded response payloads (command ID followed by
// arguments) for framing and transmission.
type Responder func(payload []byte)

// CommandRegistry holds all registered commands
type CommandRegistry struct {
	mu        sync.RWMutex
	commands  map[uint16]*Command
	nameToID  map[string]uint16
	nextID    uint16
	responder Responder
}

var ErrUnknownCommand = errors.New("unknown command ID")

var globalRegistry = NewCommandRegistry()

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[uint16]*Command),
		nameToID: make(map[string]uint16),
	}
}

// GetGlobalRegistry returns the global command registry
func GetGlobalRegistry() *CommandRegistry {
	return globalRegistry
}

// Register adds a command to the registry. Registering a name twice returns
// the existing ID, so IDs depend only on first-registration order.
func (r *CommandRegistry) Register(name string, format string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.nameToID[name]; exists {
		return id
	}

	id := r.nextID
	r.nextID++
	r.commands[id] = &Command{
		ID:      id,
		Name:    name,
		Format:  format,
		Handler: handler,
	}
	r.nameToID[name] = id
	return id
}

// RegisterResponse registers a response message (MCU -> Host)
func (r *CommandRegistry) RegisterResponse(name string, format string) uint16 {
	return r.Register(name, format, nil)
}

// GetCommand retrieves a command by ID
func (r *CommandRegistry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// GetCommandByName retrieves a command by name
func (r *CommandRegistry) GetCommandByName(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Dispatch calls the appropriate command handler
func (r *CommandRegistry) Dispatch(cmdID uint16, data *[]byte) error {
	cmd, ok := r.GetCommand(cmdID)
	if !ok || cmd.Handler == nil {
		return errors.New(ErrUnknownCommand.Error() + ": " + itoa(int(cmdID)))
	}
	return cmd.Handler(data)
}

// DispatchFrame runs every command packed into one message block payload.
// It stops at the first failing command.
func (r *CommandRegistry) DispatchFrame(payload []byte) error {
	data := payload
	for len(data) > 0 {
		id, err := protocol.DecodeVLQUint(&data)
		if err != nil {
			return err
		}
		if err := r.Dispatch(uint16(id), &data); err != nil {
			return err
		}
	}
	return nil
}

// GetDictionary returns one "name format" line per command in ID order.
func (r *CommandRegistry) GetDictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dict := ""
	for i := uint16(0); i < r.nextID; i++ {
		cmd, ok := r.commands[i]
		if !ok {
			continue
		}
		if cmd.Format != "" {
			dict += cmd.Name + " " + cmd.Format + "\n"
		} else {
			dict += cmd.Name + "\n"
		}
	}
	return dict
}

// SetResponder sets where SendResponse delivers encoded responses.
func (r *CommandRegistry) SetResponder(fn Responder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responder = fn
}

// SendResponse encodes a registered response and hands it to the responder.
// Without a responder the response is dropped.
func (r *CommandRegistry) SendResponse(name string, args func(output protocol.OutputBuffer)) {
	cmd, ok := r.GetCommandByName(name)
	if !ok {
		// All responses must be pre-registered
		panic("Response not registered: " + name)
	}

	r.mu.RLock()
	respond := r.responder
	r.mu.RUnlock()
	if respond == nil {
		return
	}

	output := protocol.NewScratchOutput()
	protocol.EncodeVLQUint(output, uint32(cmd.ID))
	if args != nil {
		args(output)
	}
	respond(output.Result())
}

// Commands returns every registered command and response in ID order.
func (r *CommandRegistry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, 0, len(r.commands))
	for i := uint16(0); i < r.nextID; i++ {
		if cmd, ok := r.commands[i]; ok {
			out = append(out, *cmd)
		}
	}
	return out
}
