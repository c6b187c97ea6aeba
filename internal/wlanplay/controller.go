// Package wlanplay implements the Host/Station control loops: channel
// discovery, peer learning, and bidirectional bridging between a local
// radio and the relay server. A background reader goroutine feeds a
// channel that a select loop consumes, the same shape an upstream
// failover loop uses, adapted here from load-balancer failover to
// packet bridging.
package wlanplay

import (
	"context"
	"log"

	"wlanplay/internal/agent"
	"wlanplay/internal/dot11"
	"wlanplay/internal/pcapw"
	"wlanplay/internal/relay"
	"wlanplay/internal/status"
)

// Controller owns one AgentDevice and one relay.Client for the
// lifetime of a session, in either Host or Station mode.
type Controller struct {
	dev    *agent.AgentDevice
	relay  *relay.Client
	reg    *status.Registry
	pcap   *pcapw.Writer
	server string
}

// Option configures optional collaborators.
type Option func(*Controller)

// WithRegistry attaches a status.Registry that the controller reports
// counters to. Nil-safe if never set.
func WithRegistry(r *status.Registry) Option {
	return func(c *Controller) { c.reg = r }
}

// WithPCAP attaches a pcap writer that every frame seen locally is
// mirrored into. Nil-safe if never set.
func WithPCAP(w *pcapw.Writer) Option {
	return func(c *Controller) { c.pcap = w }
}

// New builds a Controller bound to dev and connected to serverAddr.
func New(dev *agent.AgentDevice, serverAddr string, opts ...Option) (*Controller, error) {
	rc, err := relay.Dial(serverAddr)
	if err != nil {
		return nil, err
	}
	c := &Controller{dev: dev, relay: rc, server: serverAddr}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Close releases the relay socket. The AgentDevice is owned by the
// caller (it transitively owns the remote airserv-ng tunnel).
func (c *Controller) Close() error {
	return c.relay.Close()
}

// localPacket is a Packet observed from the local radio, or the error
// that ended the read loop.
type localPacket struct {
	pkt agent.Packet
	err error
}

// relayFrame is a Frame observed from the relay server, or the error
// that ended the read loop.
type relayFrame struct {
	frame relay.Frame
	err   error
}

// readLocal runs for the lifetime of the Controller, feeding out
// every packet that survives the device's currently installed filter.
// Exactly one concurrent reader is assumed.
func (c *Controller) readLocal(ctx context.Context, out chan<- localPacket) {
	for {
		pkt, err := c.dev.NextPacket()
		if err != nil {
			select {
			case out <- localPacket{err: err}:
			case <-ctx.Done():
			}
			return
		}
		if c.pcap != nil {
			if werr := c.pcap.Write(pkt.Data); werr != nil {
				log.Printf("[WLANPLAY] pcap write: %v", werr)
			}
		}
		select {
		case out <- localPacket{pkt: pkt}:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) readRelay(ctx context.Context, out chan<- relayFrame) {
	for {
		f, err := c.relay.Recv()
		if err != nil {
			select {
			case out <- relayFrame{err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case out <- relayFrame{frame: f}:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Controller) observeRx() {
	if c.reg != nil {
		c.reg.ObserveRx()
	}
}

func (c *Controller) observeTx() {
	if c.reg != nil {
		c.reg.ObserveTx()
	}
}

func (c *Controller) observeRelay(dir string) {
	if c.reg != nil {
		c.reg.ObserveRelay(dir)
	}
}

func (c *Controller) setStationCount(n int) {
	if c.reg != nil {
		c.reg.SetStations(n)
	}
}

// parseFrame is the dot11.Parse call shared by discovery and both mode
// loops; malformed frames are logged and dropped.
func parseFrame(data []byte) (dot11.Frame, bool) {
	f, err := dot11.Parse(data)
	if err != nil {
		log.Printf("[WLANPLAY] dropping malformed frame: %v", err)
		return dot11.Frame{}, false
	}
	return f, true
}
