package serial

import (
	"sort"

	"go.bug.st/serial/enumerator"
)

// PortInfo holds details about a serial port.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// Label is the text shown next to a port in pickers and listings.
func (p PortInfo) Label() string {
	if !p.IsUSB {
		return ""
	}
	label := "USB " + p.VID + ":" + p.PID
	if p.Product != "" {
		label += " " + p.Product
	}
	return label
}

// Lister enumerates serial ports.
type Lister func() ([]PortInfo, error)

// ListPorts returns available serial ports sorted by name.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var result []PortInfo
	for _, p := range ports {
		result = append(result, PortInfo{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
			Product:      p.Product,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Names returns the port names in order.
func Names(ports []PortInfo) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

// Diff reports which port names appeared and disappeared between two scans.
func Diff(before, after []string) (added, removed []string) {
	old := make(map[string]bool, len(before))
	for _, n := range before {
		old[n] = true
	}
	cur := make(map[string]bool, len(after))
	for _, n := range after {
		cur[n] = true
		if !old[n] {
			added = append(added, n)
		}
	}
	for _, n := range before {
		if !cur[n] {
			removed = append(removed, n)
		}
	}
	return added, removed
}
