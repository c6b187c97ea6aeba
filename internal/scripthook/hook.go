// Package scripthook runs the optional post-connect setup command named
// in [agent].after_connected. No embedded scripting engine is wired
// in, so the hook is just one more command run through the same
// Executor that drives everything else over the remote shell.
package scripthook

import (
	"fmt"
	"log"
	"strings"

	"wlanplay/internal/agent"
	"wlanplay/internal/executor"
)

// Run opens a fresh session through dialer and executes script on it,
// logging its output. A blank script is a no-op.
func Run(dialer agent.Dialer, script string) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	stream, err := dialer.Dial()
	if err != nil {
		return fmt.Errorf("scripthook: dial: %w", err)
	}
	ex := executor.New(stream)

	out, err := ex.Exec(script)
	if err != nil {
		return fmt.Errorf("scripthook: exec: %w", err)
	}
	if strings.TrimSpace(out) != "" {
		log.Printf("[SCRIPTHOOK] %s", out)
	}
	return nil
}
