// Package compile turns the symbolic module table produced by
// internal/hdl into netlist.ModuleDesc values: it resolves every
// expression to a concrete bit width, and lowers every connection and wire
// into the flat driver lists internal/netlist's elaborator consumes.
package compile

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tbui468/grci/internal/hdl"
	"github.com/tbui468/grci/internal/netlist"
)

type symKind int

const (
	symInput symKind = iota
	symWire
)

// symbol is either a module input parameter (whose driver is synthesized
// on demand as an External reference at bitOffset+i) or a wire — which
// covers both plain wire statements and a part's named output destinations
// — whose drivers were already computed in full when it was defined.
type symbol struct {
	kind      symKind
	width     int
	bitOffset int
	drivers   []netlist.Driver
}

// scope is the per-module symbol table. Every part's output names are
// defined before any part input is resolved (see compileModule), so a part
// may read the output of a part declared after it; a wire statement's
// destination is defined only when that statement is reached in
// declaration order, so naming it earlier is an unresolved identifier.
type scope struct {
	modName string
	names   map[string]*symbol
}

func newScope(modName string) *scope {
	return &scope{modName: modName, names: map[string]*symbol{}}
}

func (s *scope) lookup(name string) (*symbol, bool) {
	sym, ok := s.names[name]
	return sym, ok
}

func (s *scope) define(name string, sym *symbol, line int) error {
	if _, exists := s.names[name]; exists {
		return lineErrorf(line, "%q is already defined in module %q", name, s.modName)
	}
	s.names[name] = sym
	return nil
}

func lineErrorf(line int, format string, args ...interface{}) error {
	return errors.WithStack(&hdl.SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)})
}
