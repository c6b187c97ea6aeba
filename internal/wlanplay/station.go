package wlanplay

import (
	"context"

	"wlanplay/internal/agent"
	"wlanplay/internal/dot11"
	"wlanplay/internal/relay"
)

// RunStation drives the Station state machine: Awaiting-channel →
// Relaying. It blocks until ctx is canceled or a fatal transport error
// ends the loop.
func (c *Controller) RunStation(ctx context.Context) error {
	if err := c.relay.SendKeepalive(); err != nil {
		return err
	}

	local := make(chan localPacket, 1)
	go c.readLocal(ctx, local)
	upstream := make(chan relayFrame, 1)
	go c.readRelay(ctx, upstream)

	st := &stationState{
		knownSSIDs:    make(map[string]struct{}),
		knownStations: make(map[dot11.MAC]struct{}),
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case rf := <-upstream:
			if rf.err != nil {
				return rf.err
			}
			if rf.frame.Keepalive {
				continue
			}
			c.observeRelay("in")
			if err := c.handleUpstream(st, rf.frame); err != nil {
				return err
			}

		case lp := <-local:
			if lp.err != nil {
				return lp.err
			}
			c.observeRx()
			if err := c.handleLocal(st, lp.pkt); err != nil {
				return err
			}
		}
	}
}

// stationState is the Station's accumulated knowledge of the session
// it is relaying. knownStations only ever grows within a session; it
// is never pruned.
type stationState struct {
	channelSet    bool
	knownSSIDs    map[string]struct{}
	knownStations map[dot11.MAC]struct{}
}

// handleUpstream implements the Station's reaction to one relayed
// Data frame: locking onto the announced channel on first sight,
// learning the Host's session SSID from its action frames, and
// reinjecting the frame locally.
func (c *Controller) handleUpstream(st *stationState, frame relay.Frame) error {
	if !st.channelSet {
		if err := c.dev.SetChannel(frame.Channel); err != nil {
			return err
		}
		st.channelSet = true
	}

	if f, ok := parseFrame(frame.Data); ok {
		if ssid, ok := dot11.GetActionSSID(f); ok {
			st.knownSSIDs[ssid] = struct{}{}
		}
	}

	if err := c.dev.Send(agent.Packet{Channel: frame.Channel, Data: frame.Data}); err != nil {
		return err
	}
	c.observeTx()
	return nil
}

// handleLocal implements the Station's reaction to one locally
// observed packet: learning a probing Switch's MAC once its SSID
// matches a known Host session, and relaying traffic from already
// known stations upstream.
func (c *Controller) handleLocal(st *stationState, pkt agent.Packet) error {
	f, ok := parseFrame(pkt.Data)
	if !ok {
		return nil
	}

	if ssid, ok := dot11.GetProbeSSID(f); ok {
		if _, known := st.knownSSIDs[ssid]; known {
			st.knownStations[f.Addr2] = struct{}{}
			c.setStationCount(len(st.knownStations))
		}
	}

	if _, known := st.knownStations[f.Addr2]; known {
		if err := c.relay.SendData(pkt.Channel, pkt.Data); err != nil {
			return err
		}
		c.observeRelay("out")
	}
	return nil
}
