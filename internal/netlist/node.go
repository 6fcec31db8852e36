package netlist

// NodeKind tags the handful of primitive node shapes a description ever
// elaborates into.
type NodeKind int

const (
	NodeConstant NodeKind = iota
	NodeNand
	NodeDFF
	NodeRAMOut
)

// Node is one primitive element of an elaborated graph. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Node struct {
	Kind NodeKind

	// NodeNand
	A, B *Node

	// NodeDFF
	D         *Node
	LastState byte

	// NodeRAMOut
	RAM *RAMBlock
	Bit int // which of the RAM's 16 output bits this node is

	// NodeConstant
	Const byte

	// Step-transient evaluation state, reset between steps (combinational
	// fields between DFF passes; DFF's own Visited/Cached persist across a
	// full DFF pass so a DFF reached twice in one pass returns its cached
	// previous-state value rather than recursing).
	Visiting bool // true while still on the recursion stack: a revisit means a combinational cycle
	Visited  bool
	Cached   byte
}

// Slot is the address of some node's input pointer field (e.g. &n.A),
// letting elaboration and wiring code point an arbitrary driver at an
// arbitrary sink without the sink needing to know its own shape.
type Slot = **Node

// RAMBlock is one instantiated 64K x 16 RAM: 16 data-in slots, 16 address
// slots, a load slot, and the 16 RAM-OUT nodes that read/write it. Bytes is
// byte-addressed directly by the 16-bit address (not word-aligned: address
// A reads/writes bytes A and A+1), so it holds exactly 65536 bytes and the
// top address wraps its high byte back to 0 rather than running off the end.
type RAMBlock struct {
	Bytes [65536]byte

	DataIn  [16]*Node
	Addr    [16]*Node
	Load    *Node
	Outs    [16]*Node
	loaded  bool // whether this RAM's outputs have been computed this step
	readVal [16]byte
}

// address reads the 16-bit address latched into Addr as an int.
func (r *RAMBlock) address() int {
	a := 0
	for i := 15; i >= 0; i-- {
		a = a<<1 | int(evalCombinational(r.Addr[i]))
	}
	return a
}

func (r *RAMBlock) dataIn() int {
	v := 0
	for i := 15; i >= 0; i-- {
		v = v<<1 | int(evalCombinational(r.DataIn[i]))
	}
	return v
}

// readWord/writeWord address b directly by the 16-bit address, one byte
// per increment rather than two (word A overlaps word A+1 in the same
// byte-addressed space, mirroring the reference implementation's direct
// data[addr]/data[addr+1] indexing). The high byte wraps to index 0 at the
// top of the address space instead of running past the end of b.
func readWord(b []byte, addr int) int {
	lo := int(b[addr])
	hi := int(b[(addr+1)%len(b)])
	return lo | hi<<8
}

func writeWord(b []byte, addr, v int) {
	b[addr] = byte(v)
	b[(addr+1)%len(b)] = byte(v >> 8)
}
