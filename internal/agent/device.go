package agent

import (
	"log"
	"sync"

	"wlanplay/internal/airserv"
)

// AgentDevice is the uniform handle over an airserv.Client plus an
// installable filter. At most one concurrent read and one concurrent
// write are allowed — enforced by the caller owning the device
// exclusively for NextPacket/Send, same as the Executor.
type AgentDevice struct {
	client *airserv.Client
	name   string

	mu     sync.Mutex
	filter Filter
}

// NewAgentDevice wraps an already-established airserv client.
func NewAgentDevice(client *airserv.Client, name string) *AgentDevice {
	return &AgentDevice{client: client, name: name}
}

// Name returns the remote interface name this device was opened for.
func (d *AgentDevice) Name() string { return d.name }

// SetChannel sets the radio channel.
func (d *AgentDevice) SetChannel(ch uint32) error {
	return d.client.SetChannel(ch)
}

// GetChannel returns the current channel, or (0, false) if unknown.
func (d *AgentDevice) GetChannel() (uint32, bool, error) {
	return d.client.GetChannel()
}

// Send transmits a packet, logging a warning if the remote reports
// sending fewer bytes than were handed to it.
func (d *AgentDevice) Send(pkt Packet) error {
	n, err := d.client.Write(0, pkt.Data)
	if err != nil {
		return err
	}
	if int(n) != len(pkt.Data) {
		log.Printf("[AGENT] %s: short write: sent %d of %d bytes", d.name, n, len(pkt.Data))
	}
	return nil
}

// SetFilter atomically installs f, returning the filter it replaces (nil
// if none was installed).
func (d *AgentDevice) SetFilter(f Filter) Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	old := d.filter
	d.filter = f
	return old
}

func (d *AgentDevice) currentFilter() Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// NextPacket blocks until a packet survives the installed filter, or
// returns the first error the client's Read reports. Callers loop this
// from their own cancelable goroutine.
func (d *AgentDevice) NextPacket() (Packet, error) {
	for {
		rx, err := d.client.Read()
		if err != nil {
			return Packet{}, err
		}
		pkt := Packet{Channel: rx.Info.Channel, Data: rx.Payload}

		if f := d.currentFilter(); f != nil && f(pkt) {
			continue
		}
		return pkt, nil
	}
}
