package grci

import (
	"github.com/pkg/errors"

	"github.com/tbui468/grci/internal/arena"
	"github.com/tbui468/grci/internal/netlist"
)

// Module is a live, elaborated instance of a compiled module: an input
// vector the caller drives, an output vector refreshed each Step, and
// access to any named submodule's internal state.
type Module struct {
	ctx     *Context
	desc    *netlist.ModuleDesc
	inst    *netlist.Instance
	arena   *arena.Arena
	inputs  []byte
	outputs []byte
	closed  bool
}

// NewModule elaborates a flat simulation instance of the named, previously
// compiled module.
func (c *Context) NewModule(name string) (*Module, error) {
	desc, ok := c.lookupModule(name)
	if !ok {
		err := &Error{Phase: PhaseCompilation, Msg: "no such module: " + name}
		c.lastErr = err
		return nil, err
	}

	a := arena.New((desc.NodeCount + 3) * 64)
	inst, err := netlist.Instantiate(desc, a)
	if err != nil {
		e := &Error{Phase: PhaseMemory, Msg: errors.Wrap(err, "elaborating module").Error()}
		c.lastErr = e
		return nil, e
	}

	return &Module{
		ctx:     c,
		desc:    desc,
		inst:    inst,
		arena:   a,
		inputs:  make([]byte, desc.InputBits()),
		outputs: make([]byte, desc.OutputBits()),
	}, nil
}

// InputBits reports the module's total input width.
func (m *Module) InputBits() int { return len(m.inputs) }

// OutputBits reports the module's total output width.
func (m *Module) OutputBits() int { return len(m.outputs) }

// SetInput sets bit i of the input vector to 0 or 1, taking effect on the
// next Step.
func (m *Module) SetInput(i int, v byte) error {
	if i < 0 || i >= len(m.inputs) {
		return m.fail(&Error{Phase: PhaseSimulation, Msg: "input bit out of range"})
	}
	if v != 0 && v != 1 {
		return m.fail(&Error{Phase: PhaseSimulation, Msg: "input value must be 0 or 1"})
	}
	m.inputs[i] = v
	return nil
}

// SetInputs replaces the whole input vector at once.
func (m *Module) SetInputs(vals []byte) error {
	if len(vals) != len(m.inputs) {
		return m.fail(&Error{Phase: PhaseSimulation, Msg: "input vector has the wrong width"})
	}
	copy(m.inputs, vals)
	return nil
}

// Outputs returns the output vector as of the most recent Step.
func (m *Module) Outputs() []byte {
	return m.outputs
}

// Step advances the simulation by one half-cycle: publishes the current
// input vector, toggles the clock, runs the DFF pass on a rising edge, then
// evaluates every output bit. It returns the new clock level.
func (m *Module) Step() (bool, error) {
	if m.closed {
		return false, m.fail(&Error{Phase: PhaseSimulation, Msg: "step on a closed module"})
	}

	for i, v := range m.inputs {
		if err := m.inst.PublishInput(i, v); err != nil {
			return false, m.fail(&Error{Phase: PhaseInternal, Msg: err.Error()})
		}
	}

	m.inst.ClearCombinational()
	level := m.inst.ResetClock()

	if level == 1 {
		if err := m.inst.AdvanceClockedState(); err != nil {
			return false, m.fail(&Error{Phase: PhaseInternal, Msg: err.Error()})
		}
		m.inst.ClearCombinational()
	}

	for i := range m.outputs {
		bit, err := m.inst.EvalOutput(i)
		if err != nil {
			return false, m.fail(&Error{Phase: PhaseInternal, Msg: err.Error()})
		}
		m.outputs[i] = bit
	}

	return level == 1, nil
}

func (m *Module) fail(e *Error) error {
	m.ctx.lastErr = e
	return e
}

// Close releases the module's arena-backed node and RAM storage.
func (m *Module) Close() {
	if m.closed {
		return
	}
	m.arena.Release()
	m.closed = true
}
