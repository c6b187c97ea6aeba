package dot11

import "testing"

func actionFrame(addr2 MAC, ssidHex [16]byte) Frame {
	body := append([]byte{}, actionSSIDPrefix...)
	body = append(body, make([]byte, actionSSIDOffset-len(actionSSIDPrefix))...)
	body = append(body, ssidHex[:]...)
	return Frame{
		FrameControl: FrameControl{Type: TypeManagement, Subtype: subtypeAction},
		Addr2:        addr2,
		Body:         body,
	}
}

func TestGetActionSSID_Match(t *testing.T) {
	var ssid [16]byte
	copy(ssid[:], []byte("0123456789abcdef"))
	f := actionFrame(MAC{1, 2, 3, 4, 5, 6}, ssid)

	got, ok := GetActionSSID(f)
	if !ok {
		t.Fatal("expected match")
	}
	if len(got) != 32 {
		t.Fatalf("hex ssid length = %d, want 32", len(got))
	}
	if got != "30313233343536373839616263646566" {
		t.Fatalf("hex ssid = %q", got)
	}
}

func TestGetActionSSID_WrongSubtype(t *testing.T) {
	f := Frame{FrameControl: FrameControl{Type: TypeManagement, Subtype: 8}}
	if _, ok := GetActionSSID(f); ok {
		t.Fatal("expected no match for non-action frame")
	}
}

func TestGetActionSSID_WrongPrefix(t *testing.T) {
	f := Frame{
		FrameControl: FrameControl{Type: TypeManagement, Subtype: subtypeAction},
		Body:         make([]byte, actionSSIDOffset+actionSSIDLen),
	}
	if _, ok := GetActionSSID(f); ok {
		t.Fatal("expected no match when prefix bytes are all zero")
	}
}

func TestGetActionSSID_TooShort(t *testing.T) {
	f := Frame{
		FrameControl: FrameControl{Type: TypeManagement, Subtype: subtypeAction},
		Body:         append([]byte{}, actionSSIDPrefix...),
	}
	if _, ok := GetActionSSID(f); ok {
		t.Fatal("expected no match for body shorter than ssid offset+len")
	}
}

func probeFrame(addr2 MAC, ssid string) Frame {
	body := append([]byte{}, probeSSIDElementHeader...)
	padded := make([]byte, probeSSIDLen)
	copy(padded, ssid)
	body = append(body, padded...)
	return Frame{
		FrameControl: FrameControl{Type: TypeManagement, Subtype: subtypeProbeRequest},
		Addr2:        addr2,
		Body:         body,
	}
}

func TestGetProbeSSID_Match(t *testing.T) {
	f := probeFrame(MAC{9, 9, 9, 9, 9, 9}, "my-session-ssid")
	got, ok := GetProbeSSID(f)
	if !ok {
		t.Fatal("expected match")
	}
	if len(got) != probeSSIDLen {
		t.Fatalf("ssid length = %d, want %d", len(got), probeSSIDLen)
	}
	if got[:len("my-session-ssid")] != "my-session-ssid" {
		t.Fatalf("ssid = %q", got)
	}
}

func TestGetProbeSSID_WrongElementHeader(t *testing.T) {
	body := append([]byte{0x01, 0x20}, make([]byte, probeSSIDLen)...)
	f := Frame{FrameControl: FrameControl{Type: TypeManagement, Subtype: subtypeProbeRequest}, Body: body}
	if _, ok := GetProbeSSID(f); ok {
		t.Fatal("expected no match for wrong element id/length bytes")
	}
}

func TestGetProbeSSID_WrongType(t *testing.T) {
	f := Frame{FrameControl: FrameControl{Type: TypeData, Subtype: subtypeProbeRequest}}
	if _, ok := GetProbeSSID(f); ok {
		t.Fatal("expected no match for non-management frame")
	}
}
