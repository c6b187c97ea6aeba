package relay

import (
	"net"
	"testing"
	"time"
)

func TestFanOut(t *testing.T) {
	srv, err := Listen(0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()
	go srv.Serve()

	serverAddr := srv.Addr().String()

	const n = 4
	conns := make([]*net.UDPConn, n)
	for i := range conns {
		raddr, err := net.ResolveUDPAddr("udp", serverAddr)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		c, err := net.DialUDP("udp", nil, raddr)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		defer c.Close()
		conns[i] = c
	}

	for i, c := range conns {
		if _, err := c.Write(Encode(Frame{Keepalive: true})); err != nil {
			t.Fatalf("keepalive %d: %v", i, err)
		}
	}
	// Let the server observe every keepalive before the data frame,
	// since registration has no synchronization barrier of its own.
	time.Sleep(100 * time.Millisecond)

	payload := Encode(Frame{Channel: 6, Data: []byte{0xAA, 0xBB}})
	if _, err := conns[0].Write(payload); err != nil {
		t.Fatalf("data send: %v", err)
	}

	for i := 1; i < n; i++ {
		conns[i].SetReadDeadline(time.Now().Add(2 * time.Second))
		buf := make([]byte, 1500)
		nRead, err := conns[i].Read(buf)
		if err != nil {
			t.Fatalf("peer %d did not receive forwarded frame: %v", i, err)
		}
		if string(buf[:nRead]) != string(payload) {
			t.Fatalf("peer %d got %x, want %x", i, buf[:nRead], payload)
		}
	}

	conns[0].SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, 1500)
	if _, err := conns[0].Read(buf); err == nil {
		t.Fatalf("sender unexpectedly received its own frame back")
	}
}
