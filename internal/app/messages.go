package app

import "github.com/buckleypaul/dude/internal/serial"

// PortsScannedMsg carries the result of a serial port enumeration.
type PortsScannedMsg struct {
	Ports []serial.PortInfo
	Err   error
}

// refreshTickMsg fires when the auto-refresh interval elapses. seq ties it
// to the timer that scheduled it so stale ticks can be dropped.
type refreshTickMsg struct {
	seq int
}
