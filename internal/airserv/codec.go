// Package airserv implements the airserv-ng wire protocol: a
// request/reply binary framing used to drive a remote monitor-mode
// radio, plus the client that speaks it over any transport.Stream.
package airserv

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Command IDs.
const (
	cmdRc         = 1
	cmdGetChan    = 2
	cmdSetChan    = 3
	cmdWrite      = 4
	cmdPacket     = 5
	cmdGetMac     = 6
	cmdMac        = 7
	cmdGetMonitor = 8
	cmdGetRate    = 9
	cmdSetRate    = 10
)

const rxInfoSize = 8 + 4 + 4 + 4 + 4 + 4 + 4 // mac,power,noise,channel,freq,rate,antenna

// NetCmd is any airserv command or reply frame body.
type NetCmd interface {
	cmdID() uint8
	encodeBody() []byte
}

// Rc is a generic numeric reply (ack code, channel, rate...).
type Rc struct{ Value uint32 }

func (Rc) cmdID() uint8 { return cmdRc }
func (c Rc) encodeBody() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.Value)
	return b
}

type GetChan struct{}

func (GetChan) cmdID() uint8       { return cmdGetChan }
func (GetChan) encodeBody() []byte { return nil }

type SetChan struct{ Channel uint32 }

func (SetChan) cmdID() uint8 { return cmdSetChan }
func (c SetChan) encodeBody() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.Channel)
	return b
}

// TxInfo is the fixed prefix of a Write command's body.
type TxInfo struct{ Rate uint32 }

// WriteCmd carries a frame to transmit.
type WriteCmd struct {
	Info    TxInfo
	Payload []byte
}

func (WriteCmd) cmdID() uint8 { return cmdWrite }
func (c WriteCmd) encodeBody() []byte {
	b := make([]byte, 4+len(c.Payload))
	binary.BigEndian.PutUint32(b[:4], c.Info.Rate)
	copy(b[4:], c.Payload)
	return b
}

// RxInfo is the fixed prefix of a received Packet frame.
type RxInfo struct {
	MAC     uint64
	Power   int32
	Noise   int32
	Channel uint32
	Freq    uint32
	Rate    uint32
	Antenna uint32
}

// RxPacket is an unsolicited received frame (cmd id 5).
type RxPacket struct {
	Info    RxInfo
	Payload []byte
}

func (RxPacket) cmdID() uint8 { return cmdPacket }
func (c RxPacket) encodeBody() []byte {
	b := make([]byte, rxInfoSize+len(c.Payload))
	binary.BigEndian.PutUint64(b[0:8], c.Info.MAC)
	binary.BigEndian.PutUint32(b[8:12], uint32(c.Info.Power))
	binary.BigEndian.PutUint32(b[12:16], uint32(c.Info.Noise))
	binary.BigEndian.PutUint32(b[16:20], c.Info.Channel)
	binary.BigEndian.PutUint32(b[20:24], c.Info.Freq)
	binary.BigEndian.PutUint32(b[24:28], c.Info.Rate)
	binary.BigEndian.PutUint32(b[28:32], c.Info.Antenna)
	copy(b[rxInfoSize:], c.Payload)
	return b
}

type GetMac struct{}

func (GetMac) cmdID() uint8       { return cmdGetMac }
func (GetMac) encodeBody() []byte { return nil }

// MacReply carries a 6-byte hardware address.
type MacReply struct{ Addr [6]byte }

func (MacReply) cmdID() uint8 { return cmdMac }
func (c MacReply) encodeBody() []byte {
	b := make([]byte, 6)
	copy(b, c.Addr[:])
	return b
}

type GetMonitor struct{}

func (GetMonitor) cmdID() uint8       { return cmdGetMonitor }
func (GetMonitor) encodeBody() []byte { return nil }

type GetRate struct{}

func (GetRate) cmdID() uint8       { return cmdGetRate }
func (GetRate) encodeBody() []byte { return nil }

type SetRate struct{ Rate uint32 }

func (SetRate) cmdID() uint8 { return cmdSetRate }
func (c SetRate) encodeBody() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, c.Rate)
	return b
}

// Encode renders a command as the wire frame cmd:u8 | len:u32(BE) | body.
func Encode(c NetCmd) []byte {
	body := c.encodeBody()
	out := make([]byte, 5+len(body))
	out[0] = c.cmdID()
	binary.BigEndian.PutUint32(out[1:5], uint32(len(body)))
	copy(out[5:], body)
	return out
}

// Decode reads one frame from r and returns its concrete NetCmd.
func Decode(r io.Reader) (NetCmd, error) {
	hdr := make([]byte, 5)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}
	cmd := hdr[0]
	length := binary.BigEndian.Uint32(hdr[1:5])

	body := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, err
		}
	}

	switch cmd {
	case cmdRc:
		if len(body) != 4 {
			return nil, fmt.Errorf("airserv: Rc body len %d, want 4", len(body))
		}
		return Rc{Value: binary.BigEndian.Uint32(body)}, nil
	case cmdGetChan:
		return GetChan{}, nil
	case cmdSetChan:
		if len(body) != 4 {
			return nil, fmt.Errorf("airserv: SetChan body len %d, want 4", len(body))
		}
		return SetChan{Channel: binary.BigEndian.Uint32(body)}, nil
	case cmdWrite:
		if len(body) < 4 {
			return nil, fmt.Errorf("airserv: Write body len %d, want >= 4", len(body))
		}
		return WriteCmd{
			Info:    TxInfo{Rate: binary.BigEndian.Uint32(body[:4])},
			Payload: append([]byte(nil), body[4:]...),
		}, nil
	case cmdPacket:
		if len(body) < rxInfoSize {
			return nil, fmt.Errorf("airserv: Packet body len %d, want >= %d", len(body), rxInfoSize)
		}
		info := RxInfo{
			MAC:     binary.BigEndian.Uint64(body[0:8]),
			Power:   int32(binary.BigEndian.Uint32(body[8:12])),
			Noise:   int32(binary.BigEndian.Uint32(body[12:16])),
			Channel: binary.BigEndian.Uint32(body[16:20]),
			Freq:    binary.BigEndian.Uint32(body[20:24]),
			Rate:    binary.BigEndian.Uint32(body[24:28]),
			Antenna: binary.BigEndian.Uint32(body[28:32]),
		}
		return RxPacket{Info: info, Payload: append([]byte(nil), body[rxInfoSize:]...)}, nil
	case cmdGetMac:
		return GetMac{}, nil
	case cmdMac:
		if len(body) != 6 {
			return nil, fmt.Errorf("airserv: Mac body len %d, want 6", len(body))
		}
		var m MacReply
		copy(m.Addr[:], body)
		return m, nil
	case cmdGetMonitor:
		return GetMonitor{}, nil
	case cmdGetRate:
		return GetRate{}, nil
	case cmdSetRate:
		if len(body) != 4 {
			return nil, fmt.Errorf("airserv: SetRate body len %d, want 4", len(body))
		}
		return SetRate{Rate: binary.BigEndian.Uint32(body)}, nil
	default:
		return nil, fmt.Errorf("airserv: unknown command id %d", cmd)
	}
}
