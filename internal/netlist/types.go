// Package netlist defines the flattened, post-inference description of a
// module and the elaborator that instantiates it into a live graph of
// primitive nodes. The description types are produced by internal/compile;
// this package owns only the shapes and the instantiation walk, mirroring
// the split between a chip's symbolic wiring table and its mounted pin
// graph in the reference module's chip.go/wiring.go.
package netlist

// DriverKind discriminates the four ways a sink bit can be fed. Clock is
// reserved: the front end never emits it; Instantiate wires a Clock driver
// to the instance's shared clock node.
type DriverKind int

const (
	DriverExternal DriverKind = iota
	DriverInternal
	DriverConstant
	DriverClock
)

// Driver names where a single bit comes from, post-lowering.
type Driver struct {
	Kind DriverKind

	// DriverExternal: index into the owning module's input bit vector.
	ExternalIndex int

	// DriverInternal: which part instance, and which of its output bits.
	PartIndex int
	BitIndex  int

	// DriverConstant: 0 or 1.
	ConstValue int
}

// Param is a named, widthed input or output parameter.
type Param struct {
	Name  string
	Width int
}

// PartDesc is one instantiated part within a module body: a reference to
// another module description plus, per input bit of that part (in
// declaration order), the Driver that feeds it.
type PartDesc struct {
	InstName    string // "" if the source gave no instance name
	Desc        *ModuleDesc
	Connections []Driver
}

// Kind distinguishes the three built-in primitives from ordinary composite
// modules described entirely in terms of parts and wires.
type Kind int

const (
	Composite Kind = iota
	BuiltinNand
	BuiltinDff
	BuiltinRAM64K
)

// ModuleDesc is the complete, post-inference, pre-instantiation
// description of one module: either a composite built from Parts and
// OutputDrivers, or one of the three built-in primitives (Kind != Composite,
// Parts/OutputDrivers unused).
type ModuleDesc struct {
	Name    string
	Kind    Kind
	Inputs  []Param
	Outputs []Param

	Parts         []PartDesc
	OutputDrivers []Driver // one per output bit, in output-bit order

	// InputSinkCounts[i] is how many primitive input slots, across the
	// whole tree rooted here, the i-th input bit ultimately feeds.
	InputSinkCounts []int

	// NodeCount and DFFCount are the aggregate primitive node and DFF
	// counts across the whole tree rooted at this description, computed
	// once by the front end and reused unchanged for every instantiation.
	NodeCount int
	DFFCount  int
}

func (m *ModuleDesc) InputBits() int {
	n := 0
	for _, p := range m.Inputs {
		n += p.Width
	}
	return n
}

func (m *ModuleDesc) OutputBits() int {
	n := 0
	for _, p := range m.Outputs {
		n += p.Width
	}
	return n
}

// Nand, Dff and Ram64K are the three built-in module descriptions that
// every compile context registers before any source is parsed.
var (
	Nand = &ModuleDesc{
		Name:            "Nand",
		Kind:            BuiltinNand,
		Inputs:          []Param{{Name: "a", Width: 1}, {Name: "b", Width: 1}},
		Outputs:         []Param{{Name: "out", Width: 1}},
		InputSinkCounts: []int{1, 1},
		NodeCount:       1,
	}
	Dff = &ModuleDesc{
		Name:            "Dff",
		Kind:            BuiltinDff,
		Inputs:          []Param{{Name: "d", Width: 1}},
		Outputs:         []Param{{Name: "q", Width: 1}},
		InputSinkCounts: []int{1},
		NodeCount:       1,
		DFFCount:        1,
	}
	Ram64K = &ModuleDesc{
		Name: "Ram64K",
		Kind: BuiltinRAM64K,
		Inputs: []Param{
			{Name: "in", Width: 16},
			{Name: "load", Width: 1},
			{Name: "address", Width: 16},
		},
		Outputs:         []Param{{Name: "out", Width: 16}},
		InputSinkCounts: sinkCountsOf(16, 1, 16),
		NodeCount:       16,
		DFFCount:        16,
	}
)

func sinkCountsOf(widths ...int) []int {
	var out []int
	for _, w := range widths {
		for i := 0; i < w; i++ {
			out = append(out, 1)
		}
	}
	return out
}

// Builtins returns the registration table every new compile context starts
// with, keyed by the reserved names.
func Builtins() map[string]*ModuleDesc {
	return map[string]*ModuleDesc{
		"Nand":   Nand,
		"Dff":    Dff,
		"Ram64K": Ram64K,
	}
}
