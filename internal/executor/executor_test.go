package executor

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

// fakeShell answers the Executor's sentinel protocol: it parses the
// command between the two echoed sentinels out of whatever was
// written, looks up a canned reply, and queues the formatted response
// for the next Read. It never behaves like a real shell beyond that —
// enough to exercise the protocol framing without one.
type fakeShell struct {
	replies map[string]string
	out     bytes.Buffer
}

var cmdRE = regexp.MustCompile(`(?s)echo '---start---'\n(.*)\necho '---end---'\n\necho \$\?\n`)

func newFakeShell(replies map[string]string) *fakeShell {
	return &fakeShell{replies: replies}
}

func (f *fakeShell) Write(p []byte) (int, error) {
	m := cmdRE.FindSubmatch(p)
	if m == nil {
		f.out.WriteString("---start---\n---end---\n0\n")
		return len(p), nil
	}
	cmd := strings.TrimSpace(string(m[1]))
	reply, ok := f.replies[cmd]
	if !ok {
		reply = ""
	}
	f.out.WriteString("---start---\n")
	f.out.WriteString(reply)
	if !strings.HasSuffix(reply, "\n") && reply != "" {
		f.out.WriteString("\n")
	}
	f.out.WriteString("---end---\n0\n")
	return len(p), nil
}

func (f *fakeShell) Read(p []byte) (int, error) { return f.out.Read(p) }
func (f *fakeShell) Flush() error               { return nil }
func (f *fakeShell) Shutdown() error            { return nil }

func TestExecSentinelFraming(t *testing.T) {
	shell := newFakeShell(map[string]string{"echo hi": "hi"})
	ex := New(shell)

	out, err := ex.Exec("echo hi")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out != "hi\n" {
		t.Fatalf("out = %q, want %q", out, "hi\n")
	}
}

func TestExecUnknownCommandEmptyOutput(t *testing.T) {
	shell := newFakeShell(nil)
	ex := New(shell)

	out, err := ex.Exec("whatever")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out != "" {
		t.Fatalf("out = %q, want empty", out)
	}
}

func TestExecBytesAfterExecStreamFails(t *testing.T) {
	shell := newFakeShell(map[string]string{"ls": "a\nb"})
	ex := New(shell)

	if _, err := ex.ExecStream([]byte("cat")); err != nil {
		t.Fatalf("ExecStream: %v", err)
	}
	if _, err := ex.Exec("ls"); err == nil {
		t.Fatal("expected error calling Exec after ExecStream consumed the executor")
	}
}
