package compile

import (
	"github.com/pkg/errors"

	"github.com/tbui468/grci/internal/hdl"
	"github.com/tbui468/grci/internal/netlist"
)

// Table is the shared, additive registry of module descriptions a Context
// accumulates across CompileSource calls: built-ins plus every module
// successfully compiled so far, keyed by name.
type Table map[string]*netlist.ModuleDesc

// NewTable returns a table pre-populated with the three built-in primitives.
func NewTable() Table {
	t := Table{}
	for name, desc := range netlist.Builtins() {
		t[name] = desc
	}
	return t
}

// Compile lowers every module in f into t, in declaration order. A module
// may reference only modules already present in t (built-ins, modules from
// earlier CompileSource calls, or earlier modules in the same file) — the
// front end never allows forward references within one pass.
func Compile(f *hdl.File, t Table) error {
	for _, m := range f.Modules {
		if _, exists := t[m.Name]; exists {
			return lineErrorf(m.Line, "module %q is already defined", m.Name)
		}
		desc, err := compileModule(m, t)
		if err != nil {
			return errors.Wrapf(err, "compiling module %q", m.Name)
		}
		if len(t)+1 > hdl.MaxModules {
			return lineErrorf(m.Line, "too many module definitions (max %d)", hdl.MaxModules)
		}
		t[m.Name] = desc
	}
	return nil
}

func compileModule(m *hdl.Module, t Table) (*netlist.ModuleDesc, error) {
	desc := &netlist.ModuleDesc{
		Name: m.Name,
		Kind: netlist.Composite,
	}

	sc := newScope(m.Name)
	offset := 0
	for _, in := range m.Inputs {
		desc.Inputs = append(desc.Inputs, netlist.Param{Name: in.Name, Width: in.Width})
		if err := sc.define(in.Name, &symbol{kind: symInput, width: in.Width, bitOffset: offset}, in.Line); err != nil {
			return nil, err
		}
		offset += in.Width
	}

	outOffset := make(map[string]int, len(m.Outputs))
	outWidth := make(map[string]int, len(m.Outputs))
	oo := 0
	for _, out := range m.Outputs {
		desc.Outputs = append(desc.Outputs, netlist.Param{Name: out.Name, Width: out.Width})
		outOffset[out.Name] = oo
		outWidth[out.Name] = out.Width
		oo += out.Width
	}
	outputBits := oo
	outputDrivers := make([]netlist.Driver, outputBits)
	assigned := make([]bool, outputBits)

	// Pass A registers every part's identity and output destinations up
	// front, in body order, without yet resolving any part's inputs. This
	// lets a part's input reference another part's output regardless of
	// which one is textually declared first — required for a clocked
	// element (Dff, Ram64K) whose own output feeds back into the
	// combinational logic driving its own input, the classic register
	// circuit. Plain wire statements are NOT pre-registered: wire-to-wire
	// chaining still resolves strictly in declaration order, per the
	// recursion rule in the driver-resolution order.
	for _, stmt := range m.Body {
		if stmt.Part == nil {
			continue
		}
		if err := registerPartOutputs(stmt.Part, sc, t, desc, desc.Inputs, outOffset, outWidth, outputDrivers, assigned); err != nil {
			return nil, err
		}
	}

	// Pass B resolves every part's inputs (now free to reference any
	// part's output registered above) and every plain wire statement
	// (still sequential), in the same body order.
	partIdx := 0
	for _, stmt := range m.Body {
		switch {
		case stmt.Part != nil:
			if err := resolvePartInputs(stmt.Part, sc, desc, partIdx); err != nil {
				return nil, err
			}
			partIdx++
		case stmt.Wire != nil:
			if err := compileWire(stmt.Wire, sc, desc.Inputs, outOffset, outWidth, outputDrivers, assigned); err != nil {
				return nil, err
			}
		}
	}

	for i, ok := range assigned {
		if !ok {
			return nil, lineErrorf(m.Line, "output bit %d of module %q has no driver", i, m.Name)
		}
	}
	desc.OutputDrivers = outputDrivers

	computeAggregates(desc)
	return desc, nil
}

// computeAggregates fills in InputSinkCounts, NodeCount and DFFCount by
// summing the corresponding values from every part, propagating primitive
// counts up through the module tree exactly once (descriptions are
// immutable once built, so each part's contribution is already final).
func computeAggregates(desc *netlist.ModuleDesc) {
	sinks := make([]int, desc.InputBits())
	nodeCount := 0
	dffCount := 0
	for _, p := range desc.Parts {
		nodeCount += p.Desc.NodeCount
		dffCount += p.Desc.DFFCount
		for bit, drv := range p.Connections {
			if drv.Kind == netlist.DriverExternal {
				sinks[drv.ExternalIndex] += p.Desc.InputSinkCounts[bit]
			}
		}
	}
	switch desc.Kind {
	case netlist.BuiltinNand, netlist.BuiltinDff, netlist.BuiltinRAM64K:
		return
	default:
		desc.InputSinkCounts = sinks
		desc.NodeCount = nodeCount
		desc.DFFCount = dffCount
	}
}
