// Package executor runs shell commands over a transport.Stream: it
// multiplexes bounded request/response commands over one long-lived
// remote shell, and can hand the shell off wholesale to a raw binary
// stream via ExecStream.
package executor

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"time"

	"wlanplay/internal/transport"
)

const readTimeout = 5 * time.Second

const (
	sentinelStart = "---start---"
	sentinelEnd   = "---end---\n"
)

// Executor owns one BufferedStream and serializes commands against it.
// There is no internal locking: exclusive ownership of the Executor
// value is what keeps writes strictly ordered.
type Executor struct {
	stream *transport.BufferedStream
}

// New wraps a Stream for command/response use.
func New(s transport.Stream) *Executor {
	return &Executor{stream: transport.NewBufferedStream(s)}
}

// Exec runs cmd on the remote shell and returns the bytes it wrote to
// stdout between the start and end sentinels.
func (e *Executor) Exec(cmd string) (string, error) {
	out, err := e.ExecBytes([]byte(cmd))
	return string(out), err
}

// ExecBytes is Exec for callers that already hold a byte command.
func (e *Executor) ExecBytes(cmd []byte) ([]byte, error) {
	if e.stream == nil {
		return nil, fmt.Errorf("executor: already consumed by ExecStream")
	}

	var payload bytes.Buffer
	payload.WriteString("echo '" + sentinelStart + "'\n")
	payload.Write(cmd)
	payload.WriteString("\necho '" + sentinelEnd[:len(sentinelEnd)-1] + "'\n\necho $?\n")

	if _, err := e.stream.Write(payload.Bytes()); err != nil {
		return nil, fmt.Errorf("executor: write command: %w", err)
	}
	if err := e.stream.Flush(); err != nil {
		return nil, fmt.Errorf("executor: flush: %w", err)
	}

	first, err := e.stream.ReadLineTimeout(readTimeout)
	if err != nil {
		return nil, fmt.Errorf("executor: read start sentinel: %w", err)
	}
	if first != sentinelStart {
		return nil, fmt.Errorf("executor: expected start sentinel, got %q", first)
	}

	out, err := e.stream.ReadUntilTimeout([]byte(sentinelEnd), readTimeout)
	if err != nil {
		return nil, fmt.Errorf("executor: read until end sentinel: %w", err)
	}

	statusLine, err := e.stream.ReadLineTimeout(readTimeout)
	if err != nil {
		return nil, fmt.Errorf("executor: read exit status: %w", err)
	}
	if status, serr := strconv.Atoi(statusLine); serr != nil {
		log.Printf("[EXECUTOR] unparsable exit status %q for command %q", statusLine, cmd)
	} else if status != 0 {
		// Exit code is logged only; callers only ever see stdout.
		log.Printf("[EXECUTOR] command exited %d: %q", status, cmd)
	}

	return out, nil
}

// ExecStream consumes the Executor, switching the remote shell into
// transparent mode for binary traffic: the returned Stream is the same
// underlying transport, handed back unwrapped. Once this returns, e must
// not be used again — the zeroed stream field makes any further call
// fail loudly instead of silently corrupting the tunnel.
func (e *Executor) ExecStream(cmd []byte) (transport.Stream, error) {
	if e.stream == nil {
		return nil, fmt.Errorf("executor: already consumed by ExecStream")
	}
	s := e.stream
	e.stream = nil

	if _, err := s.Write([]byte("echo '" + sentinelStart + "'\n")); err != nil {
		return nil, fmt.Errorf("executor: write start sentinel: %w", err)
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}

	line, err := s.ReadLineTimeout(readTimeout)
	if err != nil {
		return nil, fmt.Errorf("executor: read start sentinel: %w", err)
	}
	if line != sentinelStart {
		return nil, fmt.Errorf("executor: expected start sentinel, got %q", line)
	}

	var payload bytes.Buffer
	payload.WriteString("exec ")
	payload.Write(cmd)
	payload.WriteString("\n")
	if _, err := s.Write(payload.Bytes()); err != nil {
		return nil, fmt.Errorf("executor: write exec command: %w", err)
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}

	return s, nil
}
