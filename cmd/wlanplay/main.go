// Command wlanplay runs the Host or Station client: it connects to the
// configured remote over the agent transport, provisions the radio
// through airserv-ng, and bridges its 802.11 traffic against the relay
// server named in the config file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wlanplay/internal/agent"
	"wlanplay/internal/config"
	"wlanplay/internal/pcapw"
	"wlanplay/internal/scripthook"
	"wlanplay/internal/status"
	"wlanplay/internal/wlanplay"
)

func main() {
	var cfgPath, pcapPath, metricsAddr string
	flag.StringVar(&cfgPath, "cfg", "config.toml", "config path")
	flag.StringVar(&pcapPath, "pcap", "", "optional pcap capture output path")
	flag.StringVar(&metricsAddr, "metrics", "", "status/metrics listen address, e.g. :9100")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dialer, err := cfg.BuildDialer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := scripthook.Run(dialer, cfg.Agent.AfterConnected); err != nil {
		log.Fatalf("after_connected: %v", err)
	}

	la := agent.NewLinuxAgent(dialer)
	if err := la.Check(); err != nil {
		log.Fatalf("agent check: %v", err)
	}

	dev, err := la.GetDevice(agent.Device{Kind: agent.Dev, Name: cfg.Agent.Device})
	if err != nil {
		log.Fatalf("get_device %s: %v", cfg.Agent.Device, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reg *status.Registry
	if metricsAddr != "" {
		reg = status.NewRegistry()
		go func() {
			if err := reg.Serve(ctx, metricsAddr); err != nil {
				log.Printf("status server stopped: %v", err)
			}
		}()
		log.Printf("status listening on %s", metricsAddr)
	}

	var opts []wlanplay.Option
	if reg != nil {
		opts = append(opts, wlanplay.WithRegistry(reg))
	}
	if pcapPath != "" {
		w, err := pcapw.Open(pcapPath)
		if err != nil {
			log.Fatalf("pcap: %v", err)
		}
		defer w.Close()
		opts = append(opts, wlanplay.WithPCAP(w))
	}

	ctrl, err := wlanplay.New(dev, cfg.Agent.Server, opts...)
	if err != nil {
		log.Fatalf("controller: %v", err)
	}
	defer ctrl.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutting down...")
		cancel()
	}()

	var runErr error
	switch cfg.Agent.Mode {
	case config.ModeHost:
		log.Printf("starting in Host mode on device %s", cfg.Agent.Device)
		runErr = ctrl.RunHost(ctx)
	case config.ModeStation:
		log.Printf("starting in Station mode on device %s", cfg.Agent.Device)
		runErr = ctrl.RunStation(ctx)
	}

	if runErr != nil && ctx.Err() == nil {
		log.Printf("controller stopped: %v", runErr)
		os.Exit(1)
	}
}
