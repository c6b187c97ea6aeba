package wlanplay

import (
	"context"
	"log"
	"time"

	"wlanplay/internal/agent"
	"wlanplay/internal/dot11"
)

var discoveryChannels = []uint32{1, 6, 11}

const discoveryDwell = 300 * time.Millisecond

const (
	sweepRetryBase   = 1 * time.Second
	sweepRetryJitter = 250 * time.Millisecond
)

// RunHost drives the Host state machine: Discovering → Bridging. It
// blocks until ctx is canceled or a fatal transport error ends the
// bridging loop.
func (c *Controller) RunHost(ctx context.Context) error {
	local := make(chan localPacket, 1)
	go c.readLocal(ctx, local)

	sta, err := c.findSwitch(ctx, local)
	if err != nil {
		return err
	}
	log.Printf("[WLANPLAY] host: found station %s on channel %d", sta.MAC, sta.Channel)
	c.setStationCount(1)

	if err := c.dev.SetChannel(sta.Channel); err != nil {
		return err
	}
	c.dev.SetFilter(func(p agent.Packet) bool {
		f, ok := parseFrame(p.Data)
		if !ok {
			return true
		}
		return f.Addr1 != sta.MAC && f.Addr2 != sta.MAC && f.Addr3 != sta.MAC
	})

	upstream := make(chan relayFrame, 1)
	go c.readRelay(ctx, upstream)

	return c.bridge(ctx, local, upstream)
}

// findSwitch repeats the channel sweep forever until it turns up at
// least one Station. Retries live only here — once bridging starts,
// any transport error is fatal to the whole run.
func (c *Controller) findSwitch(ctx context.Context, local <-chan localPacket) (agent.Station, error) {
	for {
		stations := make(map[dot11.MAC]agent.Station)

		for _, ch := range discoveryChannels {
			if err := c.dev.SetChannel(ch); err != nil {
				return agent.Station{}, err
			}

			deadline := time.NewTimer(discoveryDwell)
		dwell:
			for {
				select {
				case <-ctx.Done():
					deadline.Stop()
					return agent.Station{}, ctx.Err()
				case <-deadline.C:
					break dwell
				case lp := <-local:
					if lp.err != nil {
						deadline.Stop()
						return agent.Station{}, lp.err
					}
					c.observeRx()
					f, ok := parseFrame(lp.pkt.Data)
					if !ok {
						continue
					}
					if _, ok := dot11.GetActionSSID(f); ok {
						stations[f.Addr2] = agent.Station{Channel: ch, MAC: f.Addr2}
					}
				}
			}
		}

		for _, sta := range stations {
			return sta, nil
		}

		select {
		case <-ctx.Done():
			return agent.Station{}, ctx.Err()
		case <-time.After(applyJitter(sweepRetryBase, sweepRetryJitter)):
		}
	}
}

// bridge runs the steady-state Host select loop: relay Data frames go
// to the radio, radio frames go to the relay as Data.
func (c *Controller) bridge(ctx context.Context, local <-chan localPacket, upstream <-chan relayFrame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case lp := <-local:
			if lp.err != nil {
				return lp.err
			}
			c.observeRx()
			if err := c.relay.SendData(lp.pkt.Channel, lp.pkt.Data); err != nil {
				return err
			}
			c.observeRelay("out")

		case rf := <-upstream:
			if rf.err != nil {
				return rf.err
			}
			if rf.frame.Keepalive {
				continue
			}
			c.observeRelay("in")
			if err := c.dev.Send(agent.Packet{Channel: rf.frame.Channel, Data: rf.frame.Data}); err != nil {
				return err
			}
			c.observeTx()
		}
	}
}
