package netlist

// SubmoduleRange locates one named part's DFFs within the flat, tree-wide
// DFF list: [Offset, Offset+Length).
type SubmoduleRange struct {
	Offset int
	Length int
}

// Instance is a live, elaborated module: a node graph plus the external
// bookkeeping needed to drive inputs in, read outputs out, and snapshot or
// restore named submodule state between steps.
type Instance struct {
	Desc *ModuleDesc

	// Inputs[i] is the sink set for the i-th external input bit: every
	// primitive input slot anywhere in the tree that bit ultimately feeds.
	Inputs [][]Slot

	// Outputs[i] is the slot holding the node whose combinational value is
	// the i-th output bit. A Slot rather than a bare *Node because a
	// composite module's output can be a direct pass-through of one of its
	// own inputs, whose backing node is repointed by PublishInput.
	Outputs []Slot

	// DFFs lists every DFF and RAM-OUT node in the tree, in the order
	// built by Instantiate (declaration order of parts, depth-first).
	DFFs []*Node

	// Named maps the bare instance name of every named part anywhere in the
	// tree to its DFF range. Names are not qualified by their parents; when
	// a name occurs more than once, the entry recorded last during
	// elaboration wins (a part is recorded after its own children).
	Named map[string]SubmoduleRange

	Const0, Const1, Clock *Node
}

// EvalOutput evaluates the i-th output bit for the current step, returning
// an error instead of panicking if a combinational cycle is detected.
func (inst *Instance) EvalOutput(i int) (bit byte, err error) {
	defer recoverCycle(&err)
	return evalCombinational(*inst.Outputs[i]), nil
}

// ClearCombinational resets the per-step cache of every combinational node
// reachable from the outputs and from each DFF's D input, and invalidates
// the memoized read of every RAM block it reaches; DFF nodes themselves are
// left untouched. Step calls it before toggling the clock and again after a
// rising-edge pass.
func (inst *Instance) ClearCombinational() {
	seen := make(map[*Node]bool)
	for _, n := range inst.Outputs {
		clearCombinational(*n, seen)
	}
	for _, dff := range inst.DFFs {
		if dff.Kind == NodeDFF {
			clearCombinational(dff.D, seen)
		}
	}
}

// AdvanceClockedState runs the dedicated DFF/RAM evaluation pass for a
// rising clock edge, visiting DFFs in list order. Every DFF's D input is
// evaluated against the *previous* LastState of all DFFs, and the new DFF
// values are committed together after the loop. A RAM block is handled when
// its first RAM-OUT node comes up in the list: its write (if load is high)
// and re-read happen right then, so a DFF later in the list that reads the
// block sees the memory as written.
func (inst *Instance) AdvanceClockedState() (err error) {
	defer recoverCycle(&err)

	newDFF := make([]byte, len(inst.DFFs))
	ramTouched := make(map[*RAMBlock]bool)

	for i, n := range inst.DFFs {
		seen := make(map[*Node]bool)
		switch n.Kind {
		case NodeDFF:
			clearCombinational(n.D, seen)
			newDFF[i] = evalCombinational(n.D)
		case NodeRAMOut:
			if !ramTouched[n.RAM] {
				n.RAM.loaded = false
				clearCombinational(n.RAM.Load, seen)
				for _, a := range n.RAM.Addr {
					clearCombinational(a, seen)
				}
				for _, d := range n.RAM.DataIn {
					clearCombinational(d, seen)
				}
				advanceRAM(n.RAM)
				ramTouched[n.RAM] = true
			}
		}
	}

	for i, n := range inst.DFFs {
		if n.Kind == NodeDFF {
			n.LastState = newDFF[i]
		}
		n.Visited = false
		n.Visiting = false
	}
	return nil
}

// ResetClock flips the shared clock constant and reports the new level.
// The clock node is a NodeConstant; ResetClock mutates Const directly
// rather than going through evalCombinational since it has no inputs.
func (inst *Instance) ResetClock() byte {
	if inst.Clock.Const == 1 {
		inst.Clock.Const = 0
	} else {
		inst.Clock.Const = 1
	}
	return inst.Clock.Const
}
