package compile

import (
	"github.com/tbui468/grci/internal/hdl"
	"github.com/tbui468/grci/internal/netlist"
)

// resolveValue computes the flat, per-bit driver list that expression e
// evaluates to: a reference (whole or sliced) into an already-defined
// symbol, a literal (1 bit for a bare 0/1, 8 or 16 bits for a 0b/0w
// literal), or a concatenation of sub-expressions in order.
func resolveValue(e *hdl.Expr, sc *scope) ([]netlist.Driver, error) {
	switch e.Kind {
	case hdl.ExprLit:
		w := e.LitWidth
		if w == 0 {
			w = 1
		}
		if e.Lit < 0 || e.Lit >= (1<<uint(w)) {
			return nil, lineErrorf(e.Line, "literal %d does not fit in %d bit(s)", e.Lit, w)
		}
		out := make([]netlist.Driver, w)
		for i := 0; i < w; i++ {
			out[i] = netlist.Driver{Kind: netlist.DriverConstant, ConstValue: (e.Lit >> uint(i)) & 1}
		}
		return out, nil

	case hdl.ExprConcat:
		var out []netlist.Driver
		for _, elem := range e.Elems {
			d, err := resolveValue(elem, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, d...)
		}
		return out, nil

	case hdl.ExprRef:
		sym, ok := sc.lookup(e.Name)
		if !ok {
			return nil, lineErrorf(e.Line, "unresolved identifier %q", e.Name)
		}
		lo, hi, err := sliceRange(e, sym.width)
		if err != nil {
			return nil, err
		}
		switch sym.kind {
		case symInput:
			out := make([]netlist.Driver, 0, hi-lo+1)
			for i := lo; i <= hi; i++ {
				out = append(out, netlist.Driver{Kind: netlist.DriverExternal, ExternalIndex: sym.bitOffset + i})
			}
			return out, nil
		default: // symWire
			return append([]netlist.Driver(nil), sym.drivers[lo:hi+1]...), nil
		}
	}
	return nil, lineErrorf(e.Line, "unsupported expression")
}

// inputNameAt returns the name of the input parameter that owns flat bit
// index idx, for an error message naming the offending input.
func inputNameAt(inputs []netlist.Param, idx int) string {
	base := 0
	for _, p := range inputs {
		if idx < base+p.Width {
			return p.Name
		}
		base += p.Width
	}
	return "?"
}

func sliceRange(e *hdl.Expr, width int) (lo, hi int, err error) {
	if !e.HasSlice {
		return 0, width - 1, nil
	}
	lo, hi = e.SliceLo, e.SliceHi
	if lo < 0 || hi < lo || hi >= width {
		return 0, 0, lineErrorf(e.Line, "slice [%d..%d] out of range for %d-bit value", lo, hi, width)
	}
	return lo, hi, nil
}

// assignDestination routes a resolved value to a destination expression:
// a fresh identifier defines a new wire; a reference to one of the
// enclosing module's own output parameters assigns those output bits
// (partial, multi-statement assignment is allowed so long as no bit is
// driven twice); anything else is an error.
func assignDestination(
	dst *hdl.Expr,
	value []netlist.Driver,
	sc *scope,
	inputs []netlist.Param,
	outOffset map[string]int,
	outWidth map[string]int,
	outputDrivers []netlist.Driver,
	assigned []bool,
) error {
	if dst.Kind != hdl.ExprRef {
		return lineErrorf(dst.Line, "invalid connection destination")
	}

	if w, isOutput := outWidth[dst.Name]; isOutput {
		lo, hi, err := sliceRange(dst, w)
		if err != nil {
			return err
		}
		if hi-lo+1 != len(value) {
			return lineErrorf(dst.Line, "width mismatch assigning to %q: destination is %d bits, source is %d bits", dst.Name, hi-lo+1, len(value))
		}
		for _, d := range value {
			if d.Kind == netlist.DriverExternal {
				return lineErrorf(dst.Line, "module input %q is connected directly to module output %q", inputNameAt(inputs, d.ExternalIndex), dst.Name)
			}
		}
		base := outOffset[dst.Name]
		for i, d := range value {
			idx := base + lo + i
			if assigned[idx] {
				return lineErrorf(dst.Line, "output bit %d of %q already has a driver", lo+i, dst.Name)
			}
			outputDrivers[idx] = d
			assigned[idx] = true
		}
		return nil
	}

	if _, exists := sc.lookup(dst.Name); exists {
		return lineErrorf(dst.Line, "%q cannot be used as a connection destination", dst.Name)
	}
	if dst.HasSlice {
		return lineErrorf(dst.Line, "cannot slice undefined wire %q", dst.Name)
	}
	return sc.define(dst.Name, &symbol{kind: symWire, width: len(value), drivers: value}, dst.Line)
}
