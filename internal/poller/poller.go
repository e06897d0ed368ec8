// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Client abstracts Modbus operations needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// Factory dials a fresh Client. ONE attempt per call.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration
	Reads    []ReadBlock
}

// Poller is a dumb, clock-driven reader.
// On transport failure the client is discarded and the factory is used on a
// later cycle.
type Poller struct {
	cfg     Config
	factory Factory

	// mu serializes reads: the tick loop and out-of-cycle table uploads
	// share one client.
	mu     sync.Mutex
	client Client
}

// New creates a poller with immutable config.
// client may be nil if factory is set; factory may be nil if client never dies.
func New(cfg Config, client Client, factory Factory) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Reads) == 0 {
		return nil, errors.New("poller: at least one read block required")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// Interval returns the poll period.
func (p *Poller) Interval() time.Duration {
	return p.cfg.Interval
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.UnitID,
		At:     time.Now(),
	}

	blocks := make([]BlockResult, 0, len(p.cfg.Reads))

	for _, rb := range p.cfg.Reads {
		b, err := p.Read(rb)
		if err != nil {
			res.Err = err
			return res
		}
		blocks = append(blocks, b)
	}

	// Commit only if all reads succeeded
	res.Blocks = blocks
	return res
}

// Read performs a single out-of-cycle read, e.g. a table upload.
func (p *Poller) Read(rb ReadBlock) (BlockResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.conn()
	if err != nil {
		return BlockResult{}, err
	}

	var regs []uint16
	switch rb.FC {
	case FCHoldingRegisters:
		regs, err = c.ReadHoldingRegisters(rb.Address, rb.Quantity)
	case FCInputRegisters:
		regs, err = c.ReadInputRegisters(rb.Address, rb.Quantity)
	default:
		return BlockResult{}, fmt.Errorf("poller: unsupported function code %d", rb.FC)
	}
	if err != nil {
		p.drop()
		return BlockResult{}, err
	}
	if len(regs) != int(rb.Quantity) {
		return BlockResult{}, fmt.Errorf("poller: fc=%d addr=%d: got %d registers, want %d", rb.FC, rb.Address, len(regs), rb.Quantity)
	}

	return BlockResult{FC: rb.FC, Address: rb.Address, Quantity: rb.Quantity, Registers: regs}, nil
}

func (p *Poller) conn() (Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	if p.factory == nil {
		return nil, errors.New("poller: no client")
	}
	c, err := p.factory()
	if err != nil {
		return nil, fmt.Errorf("poller: reconnect: %w", err)
	}
	p.client = c
	return c, nil
}

// Close closes the current client, if it can be closed.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cl, ok := p.client.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}

// drop discards a client after a transport failure.
// Clients that can be closed are closed.
func (p *Poller) drop() {
	if p.factory == nil {
		return
	}
	if cl, ok := p.client.(interface{ Close() error }); ok {
		_ = cl.Close()
	}
	p.client = nil
}
