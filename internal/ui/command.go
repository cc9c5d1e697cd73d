package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Slider ranges. The smoothing factor stays positive; at zero the smoothers
// would never move again.
const (
	MinSmoothingFactor = 0.01
	MaxSmoothingFactor = 1.0
	MinChangeLimit     = 0.0
	MaxChangeLimit     = 100.0
)

// ErrUnknownCommand is returned when decoding a command of unknown type.
var ErrUnknownCommand = errors.New("unknown command")

// CommandType names a command.
type CommandType string

const (
	CommandSetSmoothing   CommandType = "set_smoothing"
	CommandSetChangeLimit CommandType = "set_change_limit"
	CommandMute           CommandType = "mute"
	CommandUnmute         CommandType = "unmute"
	CommandToggleMute     CommandType = "toggle_mute"
	CommandQuit           CommandType = "quit"
)

// Command is a request from a user interface, applied by the control loop at
// the start of its next tick.
type Command struct {
	Type  CommandType `json:"type"`
	Value float64     `json:"value,omitempty"`
}

// SetSmoothing returns a command setting the smoothing factor of both smoothers.
func SetSmoothing(v float64) Command {
	return Command{Type: CommandSetSmoothing, Value: v}
}

// SetChangeLimit returns a command setting the change limit of both smoothers.
func SetChangeLimit(v float64) Command {
	return Command{Type: CommandSetChangeLimit, Value: v}
}

// Mute returns a mute or unmute command.
func Mute(muted bool) Command {
	if muted {
		return Command{Type: CommandMute}
	}
	return Command{Type: CommandUnmute}
}

// ToggleMute returns a command flipping the mute state.
func ToggleMute() Command {
	return Command{Type: CommandToggleMute}
}

// Quit returns a shutdown command.
func Quit() Command {
	return Command{Type: CommandQuit}
}

// Clamped returns the command with its value clamped into the slider range.
// NaN values become the lower bound.
func (c Command) Clamped() Command {
	switch c.Type {
	case CommandSetSmoothing:
		c.Value = clamp(c.Value, MinSmoothingFactor, MaxSmoothingFactor)
	case CommandSetChangeLimit:
		c.Value = clamp(c.Value, MinChangeLimit, MaxChangeLimit)
	}
	return c
}

// Validate checks the command type.
func (c Command) Validate() error {
	switch c.Type {
	case CommandSetSmoothing, CommandSetChangeLimit, CommandMute, CommandUnmute, CommandToggleMute, CommandQuit:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Type)
}

// ParseCommand decodes a JSON command such as {"type":"set_smoothing","value":0.3}.
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c.Clamped(), nil
}

// Send delivers cmd without blocking. It reports false when the queue is full.
func Send(ch chan<- Command, cmd Command) bool {
	select {
	case ch <- cmd:
		return true
	default:
		return false
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
