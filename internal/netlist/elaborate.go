package netlist

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tbui468/grci/internal/arena"
)

// builder carries the per-instantiation state threaded through the
// recursive build: the flat node storage cursor, the tree-wide DFF list,
// and the shared constant/clock nodes every sub-instance wires against.
type builder struct {
	nodes    []Node
	next     int
	dffs     []*Node
	named    map[string]SubmoduleRange
	const0   *Node
	const1   *Node
	clock    *Node
}

func (b *builder) allocNode() *Node {
	if b.next >= len(b.nodes) {
		panic(errors.Errorf("netlist: node pool exhausted (wanted more than %d nodes)", len(b.nodes)))
	}
	n := &b.nodes[b.next]
	b.next++
	return n
}

func fixedSlot(n *Node) Slot {
	v := n
	return &v
}

// Instantiate elaborates desc into a live Instance, allocating its node
// storage from a; each RAM block (with its byte store) and the DFF list are
// ordinary Go heap values. The arena must outlive the returned Instance.
func Instantiate(desc *ModuleDesc, a *arena.Arena) (inst *Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	nodeStorage := arena.AllocSlice[Node](a, desc.NodeCount+3)
	b := &builder{
		nodes: nodeStorage,
		dffs:  make([]*Node, 0, desc.DFFCount),
		named: make(map[string]SubmoduleRange),
	}
	b.const0 = b.allocNode()
	b.const0.Kind = NodeConstant
	b.const0.Const = 0
	b.const1 = b.allocNode()
	b.const1.Kind = NodeConstant
	b.const1.Const = 1
	b.clock = b.allocNode()
	b.clock.Kind = NodeConstant
	b.clock.Const = 1

	outputs, inputs := b.build(desc)

	return &Instance{
		Desc:    desc,
		Inputs:  inputs,
		Outputs: outputs,
		DFFs:    b.dffs,
		Named:   b.named,
		Const0:  b.const0,
		Const1:  b.const1,
		Clock:   b.clock,
	}, nil
}

// build recursively elaborates desc, returning, per output bit, the Slot
// that currently drives it, and per input bit, the set of Slots that must
// be repointed whenever that bit's external value changes.
func (b *builder) build(desc *ModuleDesc) (outputs []Slot, inputs [][]Slot) {
	switch desc.Kind {
	case BuiltinNand:
		n := b.allocNode()
		n.Kind = NodeNand
		return []Slot{fixedSlot(n)}, [][]Slot{{&n.A}, {&n.B}}

	case BuiltinDff:
		n := b.allocNode()
		n.Kind = NodeDFF
		b.dffs = append(b.dffs, n)
		return []Slot{fixedSlot(n)}, [][]Slot{{&n.D}}

	case BuiltinRAM64K:
		ram := &RAMBlock{}
		for i := 0; i < 16; i++ {
			n := b.allocNode()
			n.Kind = NodeRAMOut
			n.RAM = ram
			n.Bit = i
			ram.Outs[i] = n
			b.dffs = append(b.dffs, n)
		}
		ins := make([][]Slot, 0, 33)
		for i := 0; i < 16; i++ {
			ins = append(ins, []Slot{&ram.DataIn[i]})
		}
		ins = append(ins, []Slot{&ram.Load})
		for i := 0; i < 16; i++ {
			ins = append(ins, []Slot{&ram.Addr[i]})
		}
		outs := make([]Slot, 16)
		for i := 0; i < 16; i++ {
			outs[i] = fixedSlot(ram.Outs[i])
		}
		return outs, ins

	default:
		return b.buildComposite(desc)
	}
}

func (b *builder) buildComposite(desc *ModuleDesc) (outputs []Slot, inputs [][]Slot) {
	childOutputs := make([][]Slot, len(desc.Parts))
	childInputs := make([][][]Slot, len(desc.Parts))

	for pi, pd := range desc.Parts {
		startDFF := len(b.dffs)
		outs, ins := b.build(pd.Desc)
		childOutputs[pi] = outs
		childInputs[pi] = ins
		if pd.InstName != "" {
			b.named[pd.InstName] = SubmoduleRange{Offset: startDFF, Length: len(b.dffs) - startDFF}
		}
	}

	myInputs := make([][]Slot, desc.InputBits())

	driveSinks := func(sinks []Slot, node *Node) {
		for _, s := range sinks {
			*s = node
		}
	}

	for pi, pd := range desc.Parts {
		for bi, drv := range pd.Connections {
			sinks := childInputs[pi][bi]
			switch drv.Kind {
			case DriverExternal:
				myInputs[drv.ExternalIndex] = append(myInputs[drv.ExternalIndex], sinks...)
			case DriverInternal:
				driveSinks(sinks, *childOutputs[drv.PartIndex][drv.BitIndex])
			case DriverConstant:
				if drv.ConstValue == 1 {
					driveSinks(sinks, b.const1)
				} else {
					driveSinks(sinks, b.const0)
				}
			case DriverClock:
				driveSinks(sinks, b.clock)
			default:
				panic(errors.Errorf("netlist: unreachable driver kind %d", drv.Kind))
			}
		}
	}

	myOutputs := make([]Slot, len(desc.OutputDrivers))
	for k, drv := range desc.OutputDrivers {
		switch drv.Kind {
		case DriverExternal:
			var holder *Node
			slot := &holder
			myInputs[drv.ExternalIndex] = append(myInputs[drv.ExternalIndex], slot)
			myOutputs[k] = slot
		case DriverInternal:
			myOutputs[k] = childOutputs[drv.PartIndex][drv.BitIndex]
		case DriverConstant:
			if drv.ConstValue == 1 {
				myOutputs[k] = fixedSlot(b.const1)
			} else {
				myOutputs[k] = fixedSlot(b.const0)
			}
		case DriverClock:
			myOutputs[k] = fixedSlot(b.clock)
		default:
			panic(errors.Errorf("netlist: unreachable driver kind %d", drv.Kind))
		}
	}

	return myOutputs, myInputs
}

// PublishInput repoints every sink registered for input bit i at the
// shared constant node matching value (0 or 1).
func (inst *Instance) PublishInput(i int, value byte) error {
	if i < 0 || i >= len(inst.Inputs) {
		return fmt.Errorf("netlist: input bit %d out of range", i)
	}
	n := inst.Const0
	if value != 0 {
		n = inst.Const1
	}
	for _, s := range inst.Inputs[i] {
		*s = n
	}
	return nil
}
