package airserv

import (
	"bytes"
	"io"
	"testing"
)

// loopback is a minimal io.ReadWriter that discards writes and serves
// reads from a fixed, pre-recorded byte stream — enough to drive the
// Client's demux logic without a real airserv-ng on the other end.
type loopback struct {
	in  *bytes.Reader
	out bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error)  { return l.in.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.out.Write(p) }

func TestClientDemuxQueuesInterleavedPackets(t *testing.T) {
	pkt := func(n byte) RxPacket {
		return RxPacket{Info: RxInfo{Channel: uint32(n)}, Payload: []byte{n}}
	}

	var wire bytes.Buffer
	wire.Write(Encode(pkt(1)))
	wire.Write(Encode(pkt(2)))
	wire.Write(Encode(Rc{Value: 0}))
	wire.Write(Encode(pkt(3)))

	lb := &loopback{in: bytes.NewReader(wire.Bytes())}
	c := New(lb)

	if err := c.SetChannel(6); err != nil {
		t.Fatalf("SetChannel: %v", err)
	}

	got1, err := c.Read()
	if err != nil {
		t.Fatalf("Read 1: %v", err)
	}
	if got1.Info.Channel != 1 {
		t.Fatalf("Read 1 channel = %d, want 1", got1.Info.Channel)
	}

	got2, err := c.Read()
	if err != nil {
		t.Fatalf("Read 2: %v", err)
	}
	if got2.Info.Channel != 2 {
		t.Fatalf("Read 2 channel = %d, want 2", got2.Info.Channel)
	}

	got3, err := c.Read()
	if err != nil {
		t.Fatalf("Read 3: %v", err)
	}
	if got3.Info.Channel != 3 {
		t.Fatalf("Read 3 channel = %d, want 3", got3.Info.Channel)
	}

	if _, err := c.Read(); err != io.EOF {
		t.Fatalf("Read 4 err = %v, want io.EOF", err)
	}
}

func TestGetChannelUnknown(t *testing.T) {
	var wire bytes.Buffer
	wire.Write(Encode(Rc{Value: 0xFFFFFFFF})) // -1 as u32
	lb := &loopback{in: bytes.NewReader(wire.Bytes())}
	c := New(lb)

	_, ok, err := c.GetChannel()
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if ok {
		t.Fatalf("GetChannel: ok = true, want false for -1 reply")
	}
}
