// Package relay implements the UDP tunnel protocol between Host/Station
// peers and the relay server, and the stateless reflector itself.
package relay

import (
	"encoding/binary"
	"fmt"
)

const (
	version    = 0
	typeKeepalive = 0
	typeData      = 1
)

const headerSize = 3

// Frame is either a Keepalive or a Data frame.
type Frame struct {
	Keepalive bool
	Channel   uint32
	Data      []byte
}

// Encode renders f as (version<<5)|type | len:u16(BE) | body.
func Encode(f Frame) []byte {
	if f.Keepalive {
		return []byte{byte(version<<5) | typeKeepalive, 0, 0}
	}

	body := make([]byte, 4+len(f.Data))
	binary.BigEndian.PutUint32(body[:4], f.Channel)
	copy(body[4:], f.Data)

	out := make([]byte, headerSize+len(body))
	out[0] = byte(version<<5) | typeData
	binary.BigEndian.PutUint16(out[1:3], uint16(len(body)))
	copy(out[3:], body)
	return out
}

// Decode parses buf as a single relay frame. Malformed input is
// reported as an error; callers drop the frame and log it.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < headerSize {
		return Frame{}, fmt.Errorf("relay: frame too short: %d bytes", len(buf))
	}

	v := buf[0] >> 5
	typ := buf[0] & 0x1F
	length := binary.BigEndian.Uint16(buf[1:3])

	if v != version {
		return Frame{}, fmt.Errorf("relay: unsupported version %d", v)
	}
	if int(length) != len(buf)-headerSize {
		return Frame{}, fmt.Errorf("relay: length field %d != body bytes %d", length, len(buf)-headerSize)
	}
	body := buf[headerSize:]

	switch typ {
	case typeKeepalive:
		if length != 0 {
			return Frame{}, fmt.Errorf("relay: keepalive with non-zero length %d", length)
		}
		return Frame{Keepalive: true}, nil
	case typeData:
		if length < 4 {
			return Frame{}, fmt.Errorf("relay: data frame too short: %d", length)
		}
		return Frame{
			Channel: binary.BigEndian.Uint32(body[:4]),
			Data:    append([]byte(nil), body[4:]...),
		}, nil
	default:
		return Frame{}, fmt.Errorf("relay: unknown frame type %d", typ)
	}
}
