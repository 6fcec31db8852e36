package hdl

// ExprKind discriminates the variants of Expr. The set is closed: a
// reference to a symbol (with an optional bit index or range), a literal
// (a bare integer, or a 0b/0w byte or word literal), or a brace-grouped
// concatenation of sub-expressions.
type ExprKind int

const (
	ExprRef ExprKind = iota
	ExprLit
	ExprConcat
)

// Expr is a single occurrence of a symbol, literal, or concatenation in a
// part's input/output list or in a wire statement.
type Expr struct {
	Kind ExprKind
	Line int

	// ExprRef
	Name     string
	HasSlice bool
	SliceLo  int // single-bit index, or range low bound
	SliceHi  int // == SliceLo unless a range was written

	// ExprLit: Lit is the literal's value and LitWidth its bit width — 1
	// for a bare 0/1, 8 for a 0b... byte literal, 16 for a 0w... word
	// literal. Bit i of the expanded value is (Lit>>i)&1, matching the
	// bit-0-first order every other multi-bit value in this package uses.
	Lit      int
	LitWidth int

	// ExprConcat
	Elems []*Expr
}

// PartStmt instantiates another module as a part within a module body.
//
//	part := (IDENT ':')? IDENT '(' exprs? ')' '->' exprs
type PartStmt struct {
	InstName string // user-assigned instance name, or "" if none given
	PartName string
	Inputs   []*Expr
	Outputs  []*Expr
	Line     int
}

// WireStmt is a direct connection between two expressions, with no part
// instantiation involved.
//
//	wire := (expr | '{' exprs '}') '->' expr
type WireStmt struct {
	Src *Expr
	Dst *Expr
	Line int
}

// Stmt is a single body statement: exactly one of Part or Wire is set.
type Stmt struct {
	Part *PartStmt
	Wire *WireStmt
}

// Param is a single input or output parameter declaration. Width is always
// known directly from the source: a bare name has width 1, and a slice
// `[n]` on a declaration means "bus of width n".
type Param struct {
	Name  string
	Width int
	Line  int
}

// Module is the symbolic, pre-inference description of one `module`
// declaration: parameter widths are already resolved (see Param), but part
// connections and wires have not yet been checked or lowered to a netlist.
type Module struct {
	Name    string
	Inputs  []Param
	Outputs []Param
	Body    []Stmt
	Line    int
}

// File is the result of parsing one source unit: zero or more modules in
// declaration order.
type File struct {
	Modules []*Module
}
