// cmd/probedriver/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/probe-driver/internal/config"
	"github.com/tamzrod/probe-driver/internal/driver"
	"github.com/tamzrod/probe-driver/internal/poller"
	"github.com/tamzrod/probe-driver/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: probedriver <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sm := cfg.Driver.StatusMemory

	// --------------------
	// Build per-probe pipelines
	// --------------------

	for _, unit := range cfg.Driver.Probes {

		// ---- probe config ----
		base, err := config.BuildProbe(unit.Probe)
		if err != nil {
			log.Fatalf("probe build failed (unit=%s): %v", unit.ID, err)
		}

		// ---- poller ----
		p, closePoller, err := poller.Build(unit)
		if err != nil {
			log.Fatalf("poller build failed (unit=%s): %v", unit.ID, err)
		}
		defer closePoller()

		var readTable driver.TableReader
		if tb, ok := poller.TableBlock(unit); ok {
			readTable = func() ([]uint16, error) {
				res, err := p.Read(tb)
				if err != nil {
					return nil, err
				}
				return res.Registers, nil
			}
		}

		// ---- writer plan + clients (SAMPLES + STATUS) ----
		plan, err := writer.BuildPlan(unit, sm)
		if err != nil {
			log.Fatalf("writer plan failed (unit=%s): %v", unit.ID, err)
		}

		clients, closeWriters, err := writer.BuildEndpointClients(unit, sm.Endpoint)
		if err != nil {
			log.Fatalf("writer clients failed (unit=%s): %v", unit.ID, err)
		}
		defer closeWriters()

		sampleWriter := writer.New(plan, clients)

		// Status writer (optional per probe)
		var statusWriter writer.StatusWriter
		if sw, enabled := writer.NewDeviceStatusWriter(plan, clients); enabled {
			statusWriter = sw
		}

		// ---- runner ----
		r, err := driver.New(unit.ID, base, readTable, sampleWriter, statusWriter)
		if err != nil {
			// latched; stays observable until a hard reset
			log.Printf("reset release rejected (unit=%s): %v", unit.ID, err)
		}

		log.Printf(
			"probe ready (unit=%s source=%s table=%s targets=%d state=%s)",
			unit.ID,
			unit.Source.Endpoint,
			unit.Probe.Table.Describe(),
			len(plan.Targets),
			r.Machine().State(),
		)

		// ---- channel between poller and runner ----
		out := make(chan poller.PollResult)

		// Orchestrator (runner-owned state + 1Hz seconds ticker)
		go func() {
			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()

			// Full block write on start (identity re-assert) if enabled.
			r.Start()

			for {
				select {
				case <-ctx.Done():
					return
				case res := <-out:
					r.Handle(res)
				case <-secTicker.C:
					r.Second()
				}
			}
		}()

		// poller producer
		go p.Run(ctx, out)
	}

	<-ctx.Done()
	log.Printf("shutting down")
}
