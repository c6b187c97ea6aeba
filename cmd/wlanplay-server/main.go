// Command wlanplay-server runs the stateless UDP relay that wlan_play
// clients register with and exchange frames through.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wlanplay/internal/relay"
	"wlanplay/internal/status"
)

func main() {
	var port uint
	var metricsAddr string
	flag.UintVar(&port, "port", 19198, "UDP listen port")
	flag.StringVar(&metricsAddr, "metrics", "", "status/metrics listen address, e.g. :9100")
	flag.Parse()

	srv, err := relay.Listen(uint16(port))
	if err != nil {
		log.Fatalf("listen :%d: %v", port, err)
	}
	log.Printf("relay listening on %s", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if metricsAddr != "" {
		reg := status.NewRegistry()
		go func() {
			if err := reg.Serve(ctx, metricsAddr); err != nil {
				log.Printf("status server stopped: %v", err)
			}
		}()
		log.Printf("status listening on %s", metricsAddr)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutting down...")
		_ = srv.Close()
		cancel()
	}()

	if err := srv.Serve(); err != nil {
		select {
		case <-ctx.Done():
		default:
			log.Printf("relay stopped: %v", err)
			os.Exit(1)
		}
	}
}
