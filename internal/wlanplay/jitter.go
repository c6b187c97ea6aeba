package wlanplay

import (
	"math/rand"
	"sync"
	"time"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func randInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	rngMu.Lock()
	v := rng.Int63n(n)
	rngMu.Unlock()
	return v
}

// applyJitter spreads d by up to ±jitter, used between empty discovery
// sweeps so a Host without a nearby Switch doesn't hammer set_channel
// in lockstep with every other idle Host on the same network.
func applyJitter(d, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return d
	}
	j := randInt63n(int64(2*jitter)+1) - int64(jitter)
	if d+time.Duration(j) < 0 {
		return d
	}
	return d + time.Duration(j)
}
