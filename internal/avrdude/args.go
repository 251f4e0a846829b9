package avrdude

import (
	"fmt"
	"strconv"
)

// Action is the operation requested from avrdude.
type Action int

const (
	ActionErase Action = iota
	ActionVerify
)

func (a Action) String() string {
	switch a {
	case ActionErase:
		return "erase"
	case ActionVerify:
		return "verify"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// flag returns the trailing avrdude flag for the action.
func (a Action) flag() string {
	if a == ActionVerify {
		return "-v"
	}
	return "-e"
}

// Request is a single erase or verify invocation.
type Request struct {
	Port   string
	Board  string
	Action Action
}

// Args builds the avrdude argument list (without the executable) for an
// action on the given port and board.
func Args(action Action, port, board string) ([]string, error) {
	p, err := Validate(port, board)
	if err != nil {
		return nil, err
	}
	return []string{
		p.Part,
		p.Programmer,
		"-P" + port,
		"-b" + strconv.Itoa(BaudRate),
		action.flag(),
	}, nil
}
