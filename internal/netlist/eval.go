package netlist

// evalCombinational returns n's output bit for the current step, memoizing
// the result in n.Cached and detecting feedback loops that never pass
// through a DFF or RAM output (an unbounded combinational cycle, which
// would otherwise recurse forever).
func evalCombinational(n *Node) byte {
	if n.Visited {
		return n.Cached
	}
	if n.Visiting {
		panic(errCombinationalCycle)
	}
	n.Visiting = true
	var out byte
	switch n.Kind {
	case NodeConstant:
		out = n.Const
	case NodeNand:
		a := evalCombinational(n.A)
		b := evalCombinational(n.B)
		if a == 1 && b == 1 {
			out = 0
		} else {
			out = 1
		}
	case NodeDFF:
		// A DFF is a boundary: its output this step is whatever last_state
		// already holds, never a recursive evaluation of D.
		out = n.LastState
	case NodeRAMOut:
		ensureRAMRead(n.RAM)
		out = n.RAM.readVal[n.Bit]
	}
	n.Visiting = false
	n.Visited = true
	n.Cached = out
	return out
}

// ensureRAMRead performs a combinational (non-writing) read of r's
// currently addressed word the first time any of its output nodes is
// touched in a pass, then leaves the result cached for its 15 siblings.
func ensureRAMRead(r *RAMBlock) {
	if r.loaded {
		return
	}
	addr := r.address()
	v := readWord(r.Bytes[:], addr)
	for i := 0; i < 16; i++ {
		r.readVal[i] = byte(v>>i) & 1
	}
	r.loaded = true
}

// clearCombinational resets the Visited/Cached/Visiting state of every node
// reachable from roots. A DFF is a true boundary: its Q is whatever
// LastState already holds until the next rising edge, so reaching one ends
// that branch of the walk untouched. A RAM output is not: unlike a DFF, a
// RAM's read is combinational on its *current* address, so reaching a
// RAM-OUT node invalidates that block's memoized read and its
// load/address/data-in subtrees, letting the next read reflect whatever
// address is live this step even without a clock edge.
func clearCombinational(n *Node, seen map[*Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	switch n.Kind {
	case NodeDFF:
		return
	case NodeRAMOut:
		n.Visited = false
		n.Visiting = false
		n.RAM.loaded = false
		clearCombinational(n.RAM.Load, seen)
		for _, a := range n.RAM.Addr {
			clearCombinational(a, seen)
		}
		for _, d := range n.RAM.DataIn {
			clearCombinational(d, seen)
		}
	case NodeNand:
		n.Visited = false
		n.Visiting = false
		clearCombinational(n.A, seen)
		clearCombinational(n.B, seen)
	case NodeConstant:
		n.Visited = false
		n.Visiting = false
	}
}

// advanceRAM performs the write-then-read dedicated RAM evaluation run on a
// rising clock edge: if load is high, the addressed word is overwritten
// with the current data-in value before the (now fresh) word is read back
// into r.readVal.
func advanceRAM(r *RAMBlock) {
	load := evalCombinational(r.Load)
	addr := r.address()
	if load == 1 {
		writeWord(r.Bytes[:], addr, r.dataIn())
	}
	v := readWord(r.Bytes[:], addr)
	for i := 0; i < 16; i++ {
		r.readVal[i] = byte(v>>i) & 1
	}
	r.loaded = true
}
