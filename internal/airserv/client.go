package airserv

import (
	"fmt"
	"io"
	"sync"
)

// Client speaks the airserv-ng protocol over any byte stream. It
// demultiplexes unsolicited RxPacket frames from command replies:
// issuing a command reads frames until a non-Packet one arrives,
// queueing every Packet seen along the way so later Read calls observe
// them in arrival order.
type Client struct {
	s io.ReadWriter

	mu    sync.Mutex
	queue []RxPacket
}

// New wraps s for airserv use.
func New(s io.ReadWriter) *Client {
	return &Client{s: s}
}

// command writes req and reads frames until a non-Packet reply arrives,
// queueing every Packet observed along the way.
func (c *Client) command(req NetCmd) (NetCmd, error) {
	if _, err := c.s.Write(Encode(req)); err != nil {
		return nil, fmt.Errorf("airserv: write command: %w", err)
	}

	for {
		reply, err := Decode(c.s)
		if err != nil {
			return nil, fmt.Errorf("airserv: read reply: %w", err)
		}
		if pkt, ok := reply.(RxPacket); ok {
			c.mu.Lock()
			c.queue = append(c.queue, pkt)
			c.mu.Unlock()
			continue
		}
		return reply, nil
	}
}

// SetChannel sets the radio channel.
func (c *Client) SetChannel(ch uint32) error {
	reply, err := c.command(SetChan{Channel: ch})
	if err != nil {
		return err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return fmt.Errorf("airserv: SetChannel: unexpected reply %T", reply)
	}
	if rc.Value != 0 {
		return fmt.Errorf("airserv: SetChannel: remote returned rc=%d", rc.Value)
	}
	return nil
}

// GetChannel returns the current channel, or (0, false) if the remote
// reports -1 ("unknown").
func (c *Client) GetChannel() (uint32, bool, error) {
	reply, err := c.command(GetChan{})
	if err != nil {
		return 0, false, err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return 0, false, fmt.Errorf("airserv: GetChannel: unexpected reply %T", reply)
	}
	if int32(rc.Value) == -1 {
		return 0, false, nil
	}
	return rc.Value, true, nil
}

// SetRate sets the TX rate.
func (c *Client) SetRate(rate uint32) error {
	reply, err := c.command(SetRate{Rate: rate})
	if err != nil {
		return err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return fmt.Errorf("airserv: SetRate: unexpected reply %T", reply)
	}
	if rc.Value != 0 {
		return fmt.Errorf("airserv: SetRate: remote returned rc=%d", rc.Value)
	}
	return nil
}

// GetRate returns the current TX rate.
func (c *Client) GetRate() (uint32, error) {
	reply, err := c.command(GetRate{})
	if err != nil {
		return 0, err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return 0, fmt.Errorf("airserv: GetRate: unexpected reply %T", reply)
	}
	return rc.Value, nil
}

// GetMac returns the adapter's hardware address.
func (c *Client) GetMac() ([6]byte, error) {
	reply, err := c.command(GetMac{})
	if err != nil {
		return [6]byte{}, err
	}
	m, ok := reply.(MacReply)
	if !ok {
		return [6]byte{}, fmt.Errorf("airserv: GetMac: unexpected reply %T", reply)
	}
	return m.Addr, nil
}

// GetMonitor reports whether the adapter is in monitor mode.
//
// This issues a GetRate command rather than GetMonitor — a faithful
// reproduction of a known upstream quirk, not a bug to fix here.
func (c *Client) GetMonitor() (uint32, error) {
	reply, err := c.command(GetRate{})
	if err != nil {
		return 0, err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return 0, fmt.Errorf("airserv: GetMonitor: unexpected reply %T", reply)
	}
	return rc.Value, nil
}

// Write transmits a frame and returns how many bytes the remote reports
// having sent.
func (c *Client) Write(rate uint32, payload []byte) (uint32, error) {
	reply, err := c.command(WriteCmd{Info: TxInfo{Rate: rate}, Payload: payload})
	if err != nil {
		return 0, err
	}
	rc, ok := reply.(Rc)
	if !ok {
		return 0, fmt.Errorf("airserv: Write: unexpected reply %T", reply)
	}
	return rc.Value, nil
}

// Read returns the next received packet: the queue head if non-empty,
// else the next frame off the wire if it is itself a Packet. Any other
// frame arriving unsolicited is a protocol violation.
func (c *Client) Read() (RxPacket, error) {
	c.mu.Lock()
	if len(c.queue) > 0 {
		pkt := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		return pkt, nil
	}
	c.mu.Unlock()

	reply, err := Decode(c.s)
	if err != nil {
		return RxPacket{}, err
	}
	pkt, ok := reply.(RxPacket)
	if !ok {
		return RxPacket{}, fmt.Errorf("airserv: Read: %w: got %T", errInvalidUnsolicited, reply)
	}
	return pkt, nil
}

var errInvalidUnsolicited = fmt.Errorf("unsolicited non-Packet frame")
