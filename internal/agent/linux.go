package agent

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"wlanplay/internal/airserv"
	"wlanplay/internal/executor"
	"wlanplay/internal/transport"
)

// Dialer opens a fresh shell session to the remote host. LinuxAgent
// calls it once per executor it needs (control executor, airserv-ng
// server process, nc tunnel) since each must own its transport
// exclusively.
type Dialer interface {
	Dial() (transport.Stream, error)
}

// LinuxAgent is the only Agent implementation, targeting Linux hosts
// with aircrack-ng's airserv-ng and standard iw/nc tooling installed.
type LinuxAgent struct {
	dialer Dialer
}

// NewLinuxAgent builds an Agent that opens sessions through dialer.
func NewLinuxAgent(dialer Dialer) *LinuxAgent {
	return &LinuxAgent{dialer: dialer}
}

var airservBannerRE = regexp.MustCompile(`(?s)Airserv-ng\s+.*?-`)

// Check verifies the remote host carries the binaries wlan_play needs
// and that ExecStream's post-command shell actually exits when the
// inner process does — if it didn't, a dropped AgentDevice would leave
// the nc tunnel wedged open instead of tearing down.
func (a *LinuxAgent) Check() error {
	ex, err := a.newExecutor()
	if err != nil {
		return fmt.Errorf("agent: check: %w", err)
	}

	banner, err := ex.Exec("airserv-ng")
	if err != nil {
		return fmt.Errorf("agent: check: airserv-ng: %w", err)
	}
	if !airservBannerRE.MatchString(banner) {
		return fmt.Errorf("agent: check: unexpected airserv-ng banner: %q", banner)
	}

	ncOut, err := ex.Exec("nc -h 2>&1")
	if err != nil {
		return fmt.Errorf("agent: check: nc -h: %w", err)
	}
	if !hasAny(ncOut, "OpenBSD netcat", "GNU netcat", "BusyBox") {
		return fmt.Errorf("agent: check: unrecognized nc variant: %q", ncOut)
	}

	streamEx, err := a.newExecutor()
	if err != nil {
		return fmt.Errorf("agent: check: %w", err)
	}
	stream, err := streamEx.ExecStream([]byte("echo disconnect"))
	if err != nil {
		return fmt.Errorf("agent: check: exec_stream: %w", err)
	}
	if err := drainWithin(stream, 5*time.Second); err != nil {
		return fmt.Errorf("agent: check: exec_stream's shell did not exit cleanly: %w", err)
	}

	return nil
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func drainWithin(r io.Reader, d time.Duration) error {
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(io.Discard, r)
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		return fmt.Errorf("timed out waiting for EOF")
	}
}

var wiphyRE = regexp.MustCompile(`^Wiphy\s+(\S+)`)
var interfaceRE = regexp.MustCompile(`^\s*Interface\s+(\S+)`)

// ListDevice parses `iw list` for radios and `iw dev` for interfaces.
func (a *LinuxAgent) ListDevice() ([]Device, error) {
	ex, err := a.newExecutor()
	if err != nil {
		return nil, fmt.Errorf("agent: list_device: %w", err)
	}

	iwList, err := ex.Exec("iw list")
	if err != nil {
		return nil, fmt.Errorf("agent: list_device: iw list: %w", err)
	}

	ex2, err := a.newExecutor()
	if err != nil {
		return nil, fmt.Errorf("agent: list_device: %w", err)
	}
	iwDev, err := ex2.Exec("iw dev")
	if err != nil {
		return nil, fmt.Errorf("agent: list_device: iw dev: %w", err)
	}

	var devices []Device
	sc := bufio.NewScanner(strings.NewReader(iwList))
	for sc.Scan() {
		if m := wiphyRE.FindStringSubmatch(strings.TrimSpace(sc.Text())); m != nil {
			devices = append(devices, Device{Kind: Phy, Name: m[1]})
		}
	}
	sc = bufio.NewScanner(strings.NewReader(iwDev))
	for sc.Scan() {
		if m := interfaceRE.FindStringSubmatch(sc.Text()); m != nil {
			devices = append(devices, Device{Kind: Dev, Name: m[1]})
		}
	}
	return devices, nil
}

// GetDevice provisions an airserv-ng instance for dev and returns a
// ready AgentDevice: spawn airserv-ng bound to dev, give it a moment to
// bind its listening socket, dial a fresh session against it, wrap that
// session in an airserv.Client, and hand back the device handle.
func (a *LinuxAgent) GetDevice(dev Device) (*AgentDevice, error) {
	if dev.Kind != Dev {
		return nil, fmt.Errorf("agent: get_device: %q is not a usable interface", dev.Name)
	}

	control, err := a.newExecutor()
	if err != nil {
		return nil, fmt.Errorf("agent: get_device: %w", err)
	}
	if _, err := control.Exec("killall airserv-ng"); err != nil {
		return nil, fmt.Errorf("agent: get_device: killall airserv-ng: %w", err)
	}

	serverEx, err := a.newExecutor()
	if err != nil {
		return nil, fmt.Errorf("agent: get_device: %w", err)
	}
	cmd := fmt.Sprintf("airserv-ng -p 16666 -d %s -v 1 2>&1", dev.Name)
	serverStream, err := serverEx.ExecStream([]byte(cmd))
	if err != nil {
		return nil, fmt.Errorf("agent: get_device: spawn airserv-ng: %w", err)
	}
	go logLines(serverStream, "[AGENT airserv-ng]")

	time.Sleep(500 * time.Millisecond)

	ncEx, err := a.newExecutor()
	if err != nil {
		return nil, fmt.Errorf("agent: get_device: %w", err)
	}
	ncStream, err := ncEx.ExecStream([]byte("nc 127.0.0.1 16666"))
	if err != nil {
		return nil, fmt.Errorf("agent: get_device: spawn nc tunnel: %w", err)
	}

	client := airserv.New(ncStream)
	return NewAgentDevice(client, dev.Name), nil
}

func (a *LinuxAgent) newExecutor() (*executor.Executor, error) {
	stream, err := a.dialer.Dial()
	if err != nil {
		return nil, err
	}
	return executor.New(stream), nil
}

func logLines(r io.Reader, tag string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		log.Printf("%s %s", tag, sc.Text())
	}
}
