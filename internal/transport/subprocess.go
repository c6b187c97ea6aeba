package transport

import (
	"io"
	"os/exec"
)

// SubprocessStream drives a local command's stdin/stdout as a Stream,
// discarding stderr. Shutdown kills the child.
type SubprocessStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// NewSubprocessStream starts name with args, piping stdin/stdout and
// discarding stderr.
func NewSubprocessStream(name string, args ...string) (*SubprocessStream, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &SubprocessStream{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

func (s *SubprocessStream) Read(p []byte) (int, error)  { return s.stdout.Read(p) }
func (s *SubprocessStream) Write(p []byte) (int, error) { return s.stdin.Write(p) }
func (s *SubprocessStream) Flush() error                { return nil }

// Shutdown kills the child process and releases its pipes. Matches the
// subprocess transport's kill-on-drop semantics: whatever owned this
// stream (an Executor, or the raw handoff from ExecStream) tearing down
// means the remote process chain goes with it.
func (s *SubprocessStream) Shutdown() error {
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_, _ = s.cmd.Process.Wait()
	}
	return nil
}
