package avrdude

import (
	"errors"
	"fmt"
)

// BaudRate is the upload speed passed to avrdude for every supported board.
const BaudRate = 115200

// Profile holds the avrdude flags needed to talk to a board's bootloader.
type Profile struct {
	Board      string
	Part       string // -p flag, microcontroller part
	Programmer string // -c flag, programmer interface
}

// profiles is ordered the way boards are offered to the user.
var profiles = []Profile{
	{Board: "uno", Part: "-patmega328p", Programmer: "-carduino"},
	{Board: "nano", Part: "-patmega328p", Programmer: "-carduino"},
	{Board: "pro_mini", Part: "-patmega328p", Programmer: "-cminipro"},
}

var profileByBoard = func() map[string]Profile {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[p.Board] = p
	}
	return m
}()

// Boards returns the supported board identifiers in display order.
func Boards() []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.Board
	}
	return ids
}

// Profiles returns a copy of the profile table.
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}

// Lookup resolves a board identifier against the profile table.
func Lookup(board string) (Profile, bool) {
	p, ok := profileByBoard[board]
	return p, ok
}

var (
	ErrNoPort       = errors.New("no serial port selected")
	ErrUnknownBoard = errors.New("unknown board type")
)

// ConfigError reports a request that cannot be turned into an invocation.
// No process is started when one is returned.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %q", e.Err, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Validate checks the port and board before anything is launched.
func Validate(port, board string) (Profile, error) {
	if port == "" {
		return Profile{}, &ConfigError{Field: "port", Err: ErrNoPort}
	}
	p, ok := Lookup(board)
	if !ok {
		return Profile{}, &ConfigError{Field: "board", Value: board, Err: ErrUnknownBoard}
	}
	return p, nil
}
