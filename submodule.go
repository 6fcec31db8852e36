package grci

import "github.com/tbui468/grci/internal/netlist"

// SubmoduleState is a handle to one named part's internal state: the
// sequence of DFF bits in declaration order within its subtree, or, for a
// RAM64K part, its full 64 KiB backing store packed as 524288 bits
// (little-bit-endian within each byte: bit i of byte j sits at index
// j*8 + i).
type SubmoduleState struct {
	m     *Module
	nodes []*netlist.Node
	ram   *netlist.RAMBlock // non-nil only for a RAM64K submodule
}

// Submodule returns a handle to the named part's state. The name must
// match an instance name given at that part's declaration site somewhere
// in the module's tree.
func (m *Module) Submodule(name string) (*SubmoduleState, error) {
	rng, ok := m.inst.Named[name]
	if !ok {
		return nil, m.fail(&Error{Phase: PhaseSimulation, Msg: "no such submodule: " + name})
	}
	nodes := m.inst.DFFs[rng.Offset : rng.Offset+rng.Length]
	var ram *netlist.RAMBlock
	if len(nodes) == 16 && nodes[0].Kind == netlist.NodeRAMOut {
		ram = nodes[0].RAM
	}
	return &SubmoduleState{m: m, nodes: nodes, ram: ram}, nil
}

// Len reports the number of state bits: len(nodes) for an ordinary
// submodule, or 524288 (len(RAMBlock.Bytes)*8) for a RAM64K submodule.
func (s *SubmoduleState) Len() int {
	if s.ram != nil {
		return len(s.ram.Bytes) * 8
	}
	return len(s.nodes)
}

// Read copies the submodule's current state bits into a fresh slice.
func (s *SubmoduleState) Read() []byte {
	out := make([]byte, s.Len())
	if s.ram != nil {
		for j, b := range s.ram.Bytes {
			for i := 0; i < 8; i++ {
				out[j*8+i] = (b >> uint(i)) & 1
			}
		}
		return out
	}
	for i, n := range s.nodes {
		out[i] = n.LastState
	}
	return out
}

// Write restores the submodule's state from bits, which must have length
// Len(). It takes effect for the next Step.
func (s *SubmoduleState) Write(bits []byte) error {
	if len(bits) != s.Len() {
		return s.m.fail(&Error{Phase: PhaseSimulation, Msg: "state vector has the wrong length"})
	}
	if s.ram != nil {
		for j := range s.ram.Bytes {
			var b byte
			for i := 0; i < 8; i++ {
				if bits[j*8+i] != 0 {
					b |= 1 << uint(i)
				}
			}
			s.ram.Bytes[j] = b
		}
		return nil
	}
	for i, n := range s.nodes {
		n.LastState = bits[i]
	}
	return nil
}
