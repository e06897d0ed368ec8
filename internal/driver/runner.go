// internal/driver/runner.go
package driver

import (
	"fmt"
	"log"

	"github.com/tamzrod/probe-driver/internal/control"
	"github.com/tamzrod/probe-driver/internal/fsm"
	"github.com/tamzrod/probe-driver/internal/lut"
	"github.com/tamzrod/probe-driver/internal/poller"
	"github.com/tamzrod/probe-driver/internal/probe"
	"github.com/tamzrod/probe-driver/internal/status"
	"github.com/tamzrod/probe-driver/internal/writer"
)

// TableReader fetches the raw table upload block.
type TableReader func() ([]uint16, error)

// Runner owns one probe: its machine, its last control frame, and its
// status snapshot. It is driven by a single goroutine and takes no locks.
type Runner struct {
	unitID string
	base   probe.ProbeConfig

	m    *fsm.Machine
	prev control.Frame
	snap status.Snapshot

	// seconds the current fault has been latched
	secs uint16

	readTable TableReader
	out       writer.Writer
	st        writer.StatusWriter
}

// New builds a Runner and performs the reset release with base.
// An invalid base config leaves the machine latched; the Runner is still
// returned so the fault is observable in status memory.
func New(unitID string, base probe.ProbeConfig, readTable TableReader, out writer.Writer, st writer.StatusWriter) (*Runner, error) {
	r := &Runner{
		unitID:    unitID,
		base:      base,
		m:         fsm.New(),
		readTable: readTable,
		out:       out,
		st:        st,
	}
	err := r.m.ReleaseReset(base)
	r.refresh()
	return r, err
}

// Machine exposes the probe's state machine.
func (r *Runner) Machine() *fsm.Machine { return r.m }

// Snapshot is the status the runner last computed.
func (r *Runner) Snapshot() status.Snapshot { return r.snap }

// Start asserts the full status block once. Call before the first Handle.
func (r *Runner) Start() {
	r.publish(true)
}

// Handle applies one poll cycle: command edges, one machine tick, one
// sample write, and a status update when anything changed.
func (r *Runner) Handle(res poller.PollResult) {
	if res.Err != nil {
		log.Printf("poll error (unit=%s): %v", r.unitID, res.Err)
		return
	}
	if len(res.Blocks) == 0 {
		log.Printf("poll error (unit=%s): empty cycle", r.unitID)
		return
	}

	frame, err := control.Decode(res.Blocks[0].Registers)
	if err != nil {
		log.Printf("control decode failed (unit=%s): %v", r.unitID, err)
		return
	}

	edges := control.Edges(r.prev, frame)
	r.prev = frame

	if control.Has(edges, control.BitHardReset) {
		r.hardReset()
	}
	if control.Has(edges, control.BitReload) {
		r.reload()
	}
	if control.Has(edges, control.BitStart) {
		if err := r.m.Start(); err != nil {
			log.Printf("start refused (unit=%s): %v", r.unitID, err)
		}
	}
	if control.Has(edges, control.BitStop) {
		if err := r.m.Stop(); err != nil {
			log.Printf("stop refused (unit=%s): %v", r.unitID, err)
		}
	}

	before := r.m.State()
	if after := r.m.Tick(frame.TriggerVolts()); after != before {
		log.Printf("unit=%s %s -> %s", r.unitID, before, after)
	}

	if err := r.out.Write(writer.Samples{
		Trigger:   r.m.TriggerOut(),
		Intensity: r.m.Intensity(frame.Index),
	}); err != nil {
		log.Printf("writer error (unit=%s): %v", r.unitID, err)
	}

	r.publish(false)
}

// Second advances the seconds-in-fault counter. Call at 1 Hz.
func (r *Runner) Second() {
	if !r.m.Latched() || r.secs >= status.SecondsInFaultMax {
		return
	}
	r.secs++
	r.publish(false)
}

func (r *Runner) hardReset() {
	log.Printf("hard reset (unit=%s)", r.unitID)
	r.m.HardReset()
	r.secs = 0
	if err := r.m.ReleaseReset(r.base); err != nil {
		log.Printf("reset release rejected (unit=%s): %v", r.unitID, err)
	}
}

func (r *Runner) reload() {
	cfg := r.base
	if r.readTable != nil {
		table, err := r.uploadedTable()
		if err != nil {
			log.Printf("table upload failed (unit=%s): %v", r.unitID, err)
			return
		}
		cfg.Table = table
	}
	if err := r.m.LoadConfig(cfg); err != nil {
		log.Printf("config reload rejected (unit=%s): %v", r.unitID, err)
		return
	}
	r.base = cfg
	log.Printf("config reloaded (unit=%s crc=%#04x)", r.unitID, cfg.Table.CRC)
}

func (r *Runner) uploadedTable() (lut.PercentTable, error) {
	regs, err := r.readTable()
	if err != nil {
		return lut.PercentTable{}, err
	}
	table, err := lut.FromRegisters(regs)
	if err != nil {
		return lut.PercentTable{}, fmt.Errorf("decode: %w", err)
	}
	return table, nil
}

// refresh recomputes the live slots from the machine.
// It reports whether anything moved.
func (r *Runner) refresh() bool {
	if !r.m.Latched() {
		r.secs = 0
	}
	next := status.Snapshot{
		Word:           r.m.StatusWord(),
		FaultReason:    uint16(r.m.Reason()),
		SecondsInFault: r.secs,
	}
	changed := next != r.snap
	r.snap = next
	return changed
}

func (r *Runner) publish(force bool) {
	if r.refresh() || force {
		r.write()
	}
}

func (r *Runner) write() {
	if r.st == nil {
		return
	}
	if err := r.st.WriteStatus(r.snap); err != nil {
		log.Printf("status write failed (unit=%s): %v", r.unitID, err)
	}
}
