// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff"

	cfg "github.com/tamzrod/probe-driver/internal/config"
	"github.com/tamzrod/probe-driver/internal/writer/ingest"
	wmodbus "github.com/tamzrod/probe-driver/internal/writer/modbus"
)

// startupRetries bounds the connect attempts per endpoint before giving up.
const startupRetries = 3

// BuildPlan converts one probe config into a Writer Plan.
// Assumes config has already passed Validate and Normalize.
func BuildPlan(u cfg.UnitConfig, sm cfg.StatusMemoryConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{UnitID: u.ID}

	for _, t := range u.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
		})
	}

	if u.Source.StatusSlot != nil {
		plan.Status = &StatusPlan{
			Endpoint:   sm.Endpoint,
			UnitID:     sm.UnitID,
			BaseSlot:   *u.Source.StatusSlot,
			DeviceName: u.Source.DeviceName,
		}
	}

	return plan, nil
}

type closableClient interface {
	endpointClient
	Close() error
}

// BuildEndpointClients creates one client per unique endpoint.
// Targets pick their transport; the status endpoint is Modbus unless a
// target already opened it.
func BuildEndpointClients(u cfg.UnitConfig, statusEndpoint string) (map[string]endpointClient, func() error, error) {
	timeout := time.Duration(u.Source.TimeoutMs) * time.Millisecond

	unique := map[string]string{}
	for _, t := range u.Targets {
		unique[t.Endpoint] = t.Protocol
	}
	if u.Source.StatusSlot != nil && statusEndpoint != "" {
		if _, ok := unique[statusEndpoint]; !ok {
			unique[statusEndpoint] = cfg.ProtocolModbus
		}
	}

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for endpoint, proto := range unique {
		var c closableClient
		err := backoff.Retry(func() error {
			var err error
			c, err = dial(endpoint, proto, timeout)
			return err
		}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), startupRetries))
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[endpoint] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}

func dial(endpoint, proto string, timeout time.Duration) (closableClient, error) {
	switch proto {
	case cfg.ProtocolIngest:
		return ingest.NewEndpointClient(ingest.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
	default:
		return wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
	}
}
