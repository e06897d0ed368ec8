// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/cenkalti/backoff"

	cfg "github.com/tamzrod/probe-driver/internal/config"
	"github.com/tamzrod/probe-driver/internal/control"
	"github.com/tamzrod/probe-driver/internal/lut"
	pmodbus "github.com/tamzrod/probe-driver/internal/poller/modbus"
)

// startupRetries bounds the connect attempts made before the first cycle.
const startupRetries = 3

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
func Build(u cfg.UnitConfig) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: u.Source.Endpoint,
			UnitID:   u.Source.UnitID,
			Timeout:  time.Duration(u.Source.TimeoutMs) * time.Millisecond,
		})
	}

	// initial client (fail fast at startup, after a few spaced attempts)
	var client Client
	err := backoff.Retry(func() error {
		c, err := factory()
		if err != nil {
			return err
		}
		client = c
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), startupRetries))
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
			Reads:    []ReadBlock{ControlBlock(u)},
		},
		client,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}

// ControlBlock is the per-tick read geometry of a probe.
func ControlBlock(u cfg.UnitConfig) ReadBlock {
	return ReadBlock{
		FC:       FCHoldingRegisters,
		Address:  u.Source.ControlAddress,
		Quantity: control.Words,
	}
}

// TableBlock is the table upload geometry of a probe, if it opted in.
func TableBlock(u cfg.UnitConfig) (ReadBlock, bool) {
	if u.Source.TableAddress == nil {
		return ReadBlock{}, false
	}
	return ReadBlock{
		FC:       FCHoldingRegisters,
		Address:  *u.Source.TableAddress,
		Quantity: lut.Words,
	}, true
}
