package dot11

import "testing"

func TestParseManagementHeader(t *testing.T) {
	data := make([]byte, 30)
	data[0] = 0x80 // type=Management(0), subtype=8 (beacon)
	data[1] = 0x00
	data[2], data[3] = 0x00, 0x00 // duration
	addr1 := MAC{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	addr2 := MAC{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	addr3 := MAC{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	copy(data[4:10], addr1[:])
	copy(data[10:16], addr2[:])
	copy(data[16:22], addr3[:])
	data[22], data[23] = 0x10, 0x00 // sequence control
	copy(data[24:], []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00})

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.FrameControl.Type != TypeManagement {
		t.Fatalf("type = %v, want Management", f.FrameControl.Type)
	}
	if f.FrameControl.Subtype != 8 {
		t.Fatalf("subtype = %d, want 8", f.FrameControl.Subtype)
	}
	if f.Addr1 != addr1 || f.Addr2 != addr2 || f.Addr3 != addr3 {
		t.Fatalf("addresses mismatch: %+v", f)
	}
	if len(f.Body) != 6 {
		t.Fatalf("body length = %d, want 6", len(f.Body))
	}
}

func TestParseControlHeader(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 0x04 // type=Control(1), subtype=0
	addr1 := MAC{1, 2, 3, 4, 5, 6}
	copy(data[4:10], addr1[:])

	f, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.FrameControl.Type != TypeControl {
		t.Fatalf("type = %v, want Control", f.FrameControl.Type)
	}
	if f.Addr1 != addr1 {
		t.Fatalf("addr1 mismatch: %v", f.Addr1)
	}
	if f.Addr2 != (MAC{}) || f.Addr3 != (MAC{}) {
		t.Fatalf("control frame should not populate addr2/addr3: %+v", f)
	}
	if len(f.Body) != 6 {
		t.Fatalf("body length = %d, want 6", len(f.Body))
	}
}

func TestParseTooShort(t *testing.T) {
	if _, err := Parse(make([]byte, 5)); err == nil {
		t.Fatal("expected error for too-short frame")
	}
	// Valid control-length but too short for a management header.
	data := make([]byte, 10)
	data[0] = 0x80 // Management
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for management frame truncated before addr2/addr3")
	}
}

func TestFrameControlFlags(t *testing.T) {
	fc := parseFrameControl(0x00, 0xFF)
	if !(fc.ToDS && fc.FromDS && fc.MoreFragments && fc.Retry && fc.PowerManagement && fc.MoreData && fc.ProtectedFrame && fc.Order) {
		t.Fatalf("expected all flags set, got %+v", fc)
	}
	fc = parseFrameControl(0x00, 0x00)
	if fc.ToDS || fc.FromDS || fc.Retry {
		t.Fatalf("expected no flags set, got %+v", fc)
	}
}
