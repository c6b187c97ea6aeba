// Package status exposes wlan_play's runtime counters: a Prometheus
// text endpoint and a live push feed over WebSocket, both reachable
// from the same HTTP listener behind the --metrics flag.
//
// A single mutex-guarded telemetry struct feeds a hand-rolled text
// renderer rather than a Prometheus client library, since none is
// available here.
package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry accumulates the counters a running Host or Station
// controller reports.
type Registry struct {
	mu sync.RWMutex

	rxFrames    uint64
	txFrames    uint64
	relayFrames map[string]uint64 // keyed by "dir=in|out"
	dropped     map[string]uint64 // keyed by "reason=..."
	stations    int

	feed *feed
}

// NewRegistry builds an empty Registry with its live feed ready to
// accept subscribers.
func NewRegistry() *Registry {
	return &Registry{
		relayFrames: make(map[string]uint64),
		dropped:     make(map[string]uint64),
		feed:        newFeed(),
	}
}

// ObserveRx records one frame received from the local radio.
func (r *Registry) ObserveRx() {
	r.mu.Lock()
	r.rxFrames++
	r.mu.Unlock()
	r.feed.publish(fmt.Sprintf("rx %d", r.rxFrames))
}

// ObserveTx records one frame sent to the local radio.
func (r *Registry) ObserveTx() {
	r.mu.Lock()
	r.txFrames++
	r.mu.Unlock()
	r.feed.publish(fmt.Sprintf("tx %d", r.txFrames))
}

// ObserveRelay records one relay datagram crossing in direction dir
// ("in" or "out").
func (r *Registry) ObserveRelay(dir string) {
	r.mu.Lock()
	r.relayFrames["dir="+dir]++
	r.mu.Unlock()
}

// ObserveDropped records one frame dropped for reason.
func (r *Registry) ObserveDropped(reason string) {
	r.mu.Lock()
	r.dropped["reason="+reason]++
	r.mu.Unlock()
}

// SetStations reports the current discovered/known station count.
func (r *Registry) SetStations(n int) {
	r.mu.Lock()
	r.stations = n
	r.mu.Unlock()
	r.feed.publish(fmt.Sprintf("stations %d", n))
}

// Serve starts an HTTP listener on addr exposing /metrics (Prometheus
// text) and /live (WebSocket push feed), shutting down when ctx is
// canceled.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("status: empty metrics address")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", r.handleMetrics)
	mux.HandleFunc("/live", r.feed.handle)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status: serve: %w", err)
	}
	return nil
}

func (r *Registry) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "wlan_play_rx_frames_total %d\n", r.rxFrames)
	fmt.Fprintf(w, "wlan_play_tx_frames_total %d\n", r.txFrames)
	fmt.Fprintf(w, "wlan_play_discovered_stations %d\n", r.stations)
	writeCounterVec(w, "wlan_play_relay_frames_total", r.relayFrames)
	writeCounterVec(w, "wlan_play_dropped_frames_total", r.dropped)
}

func writeCounterVec(w http.ResponseWriter, name string, data map[string]uint64) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %d\n", name, toPromLabels(k), data[k])
	}
}

func toPromLabels(s string) string {
	kv := strings.SplitN(s, "=", 2)
	if len(kv) != 2 {
		return s
	}
	return fmt.Sprintf("%s=%q", kv[0], kv[1])
}
