package relay

import (
	"fmt"
	"log"
	"net"
)

// Client is the controller's UDP side: a socket bound to 0.0.0.0:0 and
// connect()ed to the relay server.
type Client struct {
	conn *net.UDPConn
}

// Dial binds an ephemeral local UDP port and connects it to serverAddr.
func Dial(serverAddr string) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("relay: resolve %s: %w", serverAddr, err)
	}
	laddr := &net.UDPAddr{IP: net.IPv4zero, Port: 0}
	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("relay: dial %s: %w", serverAddr, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the socket.
func (c *Client) Close() error { return c.conn.Close() }

// SendKeepalive registers this client with the relay server.
func (c *Client) SendKeepalive() error {
	_, err := c.conn.Write(Encode(Frame{Keepalive: true}))
	return err
}

// SendData sends a Data frame carrying channel/data upstream.
func (c *Client) SendData(channel uint32, data []byte) error {
	_, err := c.conn.Write(Encode(Frame{Channel: channel, Data: data}))
	return err
}

// Recv blocks for the next well-formed frame from the server, silently
// retrying past malformed datagrams (logged at error level).
func (c *Client) Recv() (Frame, error) {
	buf := make([]byte, 65535)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			return Frame{}, err
		}
		f, err := Decode(buf[:n])
		if err != nil {
			log.Printf("[RELAY] malformed frame from server: %v", err)
			continue
		}
		return f, nil
	}
}
