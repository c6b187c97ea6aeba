// Package agent implements the platform façade and the uniform device
// handle built on top of it: enumerating Wi-Fi devices on a remote
// host, provisioning an airserv-ng instance for one of them, and
// yielding a stream of received 802.11 frames through an installable
// filter.
package agent

import "wlanplay/internal/dot11"

// DeviceKind distinguishes a radio (Phy) from a usable network
// interface (Dev). Only Dev is usable for packet I/O.
type DeviceKind int

const (
	Phy DeviceKind = iota
	Dev
)

func (k DeviceKind) String() string {
	if k == Phy {
		return "phy"
	}
	return "dev"
}

// Device names one Wi-Fi radio or interface on the remote host.
type Device struct {
	Kind DeviceKind
	Name string
}

// Packet is one complete 802.11 frame tagged with the channel it was
// seen on (or is to be sent on).
type Packet struct {
	Channel uint32
	Data    []byte
}

// Station is a Switch discovered on the radio side.
type Station struct {
	Channel uint32
	MAC     dot11.MAC
}

// Filter is a pure predicate over a Packet; returning true drops it.
type Filter func(Packet) bool

// Agent is the per-platform façade. Only a Linux implementation is
// provided; other platforms are out of scope.
type Agent interface {
	Check() error
	ListDevice() ([]Device, error)
	GetDevice(dev Device) (*AgentDevice, error)
}
