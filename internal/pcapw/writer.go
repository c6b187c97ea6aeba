// Package pcapw optionally records every 802.11 frame a controller
// reads from the local radio to a pcap file (the --pcap flag), using
// gopacket's pcapgo writer. Frames arriving from the relay are not
// recorded.
package pcapw

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Writer appends raw 802.11 frames to a pcap file tagged
// LinkTypeIEEE802_11 — no radiotap prefix, matching the wire contract
// frames already carry by the time a controller sees them.
type Writer struct {
	f   *os.File
	pcw *pcapgo.Writer
}

// Open creates (or truncates) path and writes the pcap global header.
func Open(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pcapw: create %s: %w", path, err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65535, layers.LinkTypeIEEE802_11); err != nil {
		f.Close()
		return nil, fmt.Errorf("pcapw: write header: %w", err)
	}
	return &Writer{f: f, pcw: w}, nil
}

// Write appends one frame, stamped with the current wall-clock time.
func (w *Writer) Write(data []byte) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(data),
		Length:        len(data),
	}
	return w.pcw.WritePacket(ci, data)
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

var _ io.Closer = (*Writer)(nil)
