package compile

import (
	"github.com/tbui468/grci/internal/hdl"
	"github.com/tbui468/grci/internal/netlist"
)

// registerPartOutputs resolves a part's target module, validates its
// input/output counts, appends a placeholder PartDesc (Connections filled
// in later by resolvePartInputs), and processes every one of its output
// destination expressions. None of this needs the part's own inputs
// resolved: a part's output shape is fully known from its target module's
// description alone.
func registerPartOutputs(
	p *hdl.PartStmt,
	sc *scope,
	t Table,
	desc *netlist.ModuleDesc,
	inputs []netlist.Param,
	outOffset map[string]int,
	outWidth map[string]int,
	outputDrivers []netlist.Driver,
	assigned []bool,
) error {
	target, ok := t[p.PartName]
	if !ok {
		return lineErrorf(p.Line, "unresolved part %q", p.PartName)
	}
	if len(p.Inputs) != len(target.Inputs) {
		return lineErrorf(p.Line, "%q takes %d input(s), got %d", p.PartName, len(target.Inputs), len(p.Inputs))
	}
	if len(p.Outputs) != len(target.Outputs) {
		return lineErrorf(p.Line, "%q has %d output(s), got %d", p.PartName, len(target.Outputs), len(p.Outputs))
	}

	partIndex := len(desc.Parts)
	desc.Parts = append(desc.Parts, netlist.PartDesc{
		InstName: p.InstName,
		Desc:     target,
	})

	outBitOffset := 0
	for i, dstExpr := range p.Outputs {
		w := target.Outputs[i].Width
		synth := make([]netlist.Driver, w)
		for b := 0; b < w; b++ {
			synth[b] = netlist.Driver{Kind: netlist.DriverInternal, PartIndex: partIndex, BitIndex: outBitOffset + b}
		}
		if err := assignDestination(dstExpr, synth, sc, inputs, outOffset, outWidth, outputDrivers, assigned); err != nil {
			return err
		}
		outBitOffset += w
	}
	return nil
}

// resolvePartInputs fills in the Connections of the partIdx-th part (in
// body order, matching the index registerPartOutputs assigned it) from its
// input expressions, which may now reference any part's output registered
// during pass A.
func resolvePartInputs(p *hdl.PartStmt, sc *scope, desc *netlist.ModuleDesc, partIdx int) error {
	target := desc.Parts[partIdx].Desc
	var connections []netlist.Driver
	for i, inExpr := range p.Inputs {
		val, err := resolveValue(inExpr, sc)
		if err != nil {
			return err
		}
		if len(val) != target.Inputs[i].Width {
			return lineErrorf(inExpr.Line, "input %q of %q is %d bits, got %d", target.Inputs[i].Name, p.PartName, target.Inputs[i].Width, len(val))
		}
		connections = append(connections, val...)
	}
	desc.Parts[partIdx].Connections = connections
	return nil
}

func compileWire(
	w *hdl.WireStmt,
	sc *scope,
	inputs []netlist.Param,
	outOffset map[string]int,
	outWidth map[string]int,
	outputDrivers []netlist.Driver,
	assigned []bool,
) error {
	val, err := resolveValue(w.Src, sc)
	if err != nil {
		return err
	}
	return assignDestination(w.Dst, val, sc, inputs, outOffset, outWidth, outputDrivers, assigned)
}
