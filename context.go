package grci

import (
	"errors"

	"github.com/tbui468/grci/internal/compile"
	"github.com/tbui468/grci/internal/hdl"
	"github.com/tbui468/grci/internal/netlist"
)

// Context owns the set of compiled module descriptions and the last error
// seen, in place of a process-wide error buffer: each caller keeps its own
// Context and therefore its own independent error state.
type Context struct {
	table   compile.Table
	lastErr error
}

// NewContext constructs a compiler context with the three built-in
// primitives (Nand, Dff, Ram64K) already registered.
func NewContext() *Context {
	return &Context{table: compile.NewTable()}
}

// CompileSource parses, infers widths for, and lowers every module
// definition in src, adding them to the context's module table. Later
// calls see modules registered by earlier calls; a module name may not be
// redefined, including the three built-in names.
func (c *Context) CompileSource(src []byte) error {
	file, err := hdl.ParseFile(src)
	if err != nil {
		e := c.wrapCompileError(err)
		c.lastErr = e
		return e
	}
	if err := compile.Compile(file, c.table); err != nil {
		e := c.wrapCompileError(err)
		c.lastErr = e
		return e
	}
	return nil
}

func (c *Context) wrapCompileError(err error) *Error {
	var se *hdl.SyntaxError
	if errors.As(err, &se) {
		return &Error{Phase: PhaseCompilation, Line: se.Line, Msg: se.Msg}
	}
	return &Error{Phase: PhaseCompilation, Msg: err.Error()}
}

// Err returns the last error recorded by this context, or nil.
func (c *Context) Err() error {
	return c.lastErr
}

// lookupModule finds a previously compiled module description by name.
func (c *Context) lookupModule(name string) (*netlist.ModuleDesc, bool) {
	desc, ok := c.table[name]
	return desc, ok
}

// Close releases context-owned resources. A Context holds no arena memory
// of its own — only compiled descriptions, which are ordinary Go values —
// so Close exists for symmetry with Module.Close and the external cleanup
// operation rather than to free anything today.
func (c *Context) Close() error {
	return nil
}
