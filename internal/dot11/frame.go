// Package dot11 implements a partial IEEE 802.11 frame decoder: just
// enough of the MAC header to extract addresses and fingerprint
// Nintendo Switch beacon/probe traffic.
package dot11

import "fmt"

// MAC is a 6-byte hardware address.
type MAC [6]byte

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// FrameType is the 2-bit type field of the frame control.
type FrameType uint8

const (
	TypeManagement FrameType = 0
	TypeControl    FrameType = 1
	TypeData       FrameType = 2
)

// FrameControl is the first two bytes of every 802.11 frame.
type FrameControl struct {
	ProtocolVersion uint8
	Type            FrameType
	Subtype         uint8

	ToDS            bool
	FromDS          bool
	MoreFragments   bool
	Retry           bool
	PowerManagement bool
	MoreData        bool
	ProtectedFrame  bool
	Order           bool
}

func parseFrameControl(b0, b1 byte) FrameControl {
	return FrameControl{
		ProtocolVersion: b0 & 0x03,
		Type:            FrameType((b0 >> 2) & 0x03),
		Subtype:         (b0 >> 4) & 0x0F,

		ToDS:            b1&0x01 != 0,
		FromDS:          b1&0x02 != 0,
		MoreFragments:   b1&0x04 != 0,
		Retry:           b1&0x08 != 0,
		PowerManagement: b1&0x10 != 0,
		MoreData:        b1&0x20 != 0,
		ProtectedFrame:  b1&0x40 != 0,
		Order:           b1&0x80 != 0,
	}
}

// Frame is the partial decode of an 802.11 MAC header.
type Frame struct {
	FrameControl    FrameControl
	DurationID      uint16
	Addr1           MAC
	Addr2           MAC
	Addr3           MAC
	SequenceControl uint16
	Body            []byte
}

// Parse decodes the MAC header prefix of data. It fails if data is
// shorter than the minimum header for its frame type.
func Parse(data []byte) (Frame, error) {
	if len(data) < 10 {
		return Frame{}, fmt.Errorf("dot11: frame too short: %d bytes", len(data))
	}

	fc := parseFrameControl(data[0], data[1])
	f := Frame{
		FrameControl: fc,
		DurationID:   le16(data[2:4]),
		Addr1:        macAt(data, 4),
	}

	if fc.Type == TypeControl {
		f.Body = data[10:]
		return f, nil
	}

	if len(data) < 24 {
		return Frame{}, fmt.Errorf("dot11: frame too short for management/data header: %d bytes", len(data))
	}
	f.Addr2 = macAt(data, 10)
	f.Addr3 = macAt(data, 16)
	f.SequenceControl = le16(data[22:24])
	f.Body = data[24:]
	return f, nil
}

func macAt(data []byte, off int) MAC {
	var m MAC
	copy(m[:], data[off:off+6])
	return m
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
