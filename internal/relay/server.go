package relay

import (
	"fmt"
	"log"
	"net"
	"sync"
)

// Server is a stateless UDP reflector: it remembers every source
// address that has sent it at least one datagram (registration happens
// before the frame is decoded, so a malformed datagram still registers
// its sender), and forwards
// every Data frame to all such peers but the sender. Keepalive frames
// only register the sender. No timeouts, no eviction — a known
// limitation, not a bug.
type Server struct {
	conn *net.UDPConn

	mu    sync.Mutex
	peers map[string]*net.UDPAddr
}

// Listen binds a UDP socket on 0.0.0.0:port and returns a Server ready
// to Serve.
func Listen(port uint16) (*Server, error) {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: int(port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("relay: listen :%d: %w", port, err)
	}
	return &Server{conn: conn, peers: make(map[string]*net.UDPAddr)}, nil
}

// Addr returns the bound local address.
func (s *Server) Addr() net.Addr { return s.conn.LocalAddr() }

// Close releases the socket.
func (s *Server) Close() error { return s.conn.Close() }

// Serve reads datagrams until the socket is closed.
func (s *Server) Serve() error {
	buf := make([]byte, 65535)
	for {
		n, src, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return err
		}
		s.handleDatagram(buf[:n], src)
	}
}

func (s *Server) handleDatagram(data []byte, src *net.UDPAddr) {
	s.register(src)

	f, err := Decode(data)
	if err != nil {
		log.Printf("[RELAY] malformed frame from %s: %v", src, err)
		return
	}
	if f.Keepalive {
		return
	}

	for _, peer := range s.snapshotPeers(src) {
		if _, err := s.conn.WriteToUDP(data, peer); err != nil {
			log.Printf("[RELAY] forward to %s: %v", peer, err)
		}
	}
}

func (s *Server) register(src *net.UDPAddr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[src.String()] = src
}

func (s *Server) snapshotPeers(except *net.UDPAddr) []*net.UDPAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*net.UDPAddr, 0, len(s.peers))
	for key, addr := range s.peers {
		if key == except.String() {
			continue
		}
		out = append(out, addr)
	}
	return out
}
