package hdl

import (
	"fmt"

	"github.com/tbui468/grci/internal/lex"
)

// Hard limits enforced at parse time, one module definition at a time.
const (
	MaxParts      = 64
	MaxWires      = 32
	MaxInputBits  = 160
	MaxOutputBits = 128
	MaxModules    = 64
)

// SyntaxError is a compile-time error raised by the lexer or parser, with
// an approximate source line. Higher layers wrap this to produce the
// user-facing "GRCI compilation error [near line N]: ..." message.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("near line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func errAt(line int, format string, args ...interface{}) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Parser holds a two-token look-ahead over a lexeme stream.
type Parser struct {
	lx   lex.Interface
	cur  lex.Item
	next lex.Item
}

// NewParser creates a Parser over src.
func NewParser(src []byte) *Parser {
	p := &Parser{lx: Lexer(src)}
	p.cur = p.lx.Lex()
	p.next = p.lx.Lex()
	return p
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lx.Lex()
}

func (p *Parser) line() int { return p.cur.Line }

func (p *Parser) expect(t lex.Type) (lex.Item, error) {
	if p.cur.Type == Invalid {
		return lex.Item{}, errAt(p.cur.Line, "unexpected character %q", p.cur.Value)
	}
	if p.cur.Type != t {
		return lex.Item{}, errAt(p.cur.Line, "expected %s, found %s", tokenName(t), tokenName(p.cur.Type))
	}
	it := p.cur
	p.advance()
	return it, nil
}

// ParseFile parses a complete source unit into zero or more module
// descriptions.
func ParseFile(src []byte) (*File, error) {
	p := NewParser(src)
	f := &File{}
	for p.cur.Type != EOF {
		m, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		f.Modules = append(f.Modules, m)
		if len(f.Modules) > MaxModules {
			return nil, errAt(m.Line, "too many module definitions (max %d)", MaxModules)
		}
	}
	return f, nil
}

func (p *Parser) parseModule() (*Module, error) {
	line := p.line()
	if _, err := p.expect(KwModule); err != nil {
		return nil, err
	}
	name, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	ins, err := p.parseParams(RParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(Arrow); err != nil {
		return nil, err
	}
	outs, err := p.parseOutputs()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LBrace); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBrace); err != nil {
		return nil, err
	}

	inBits := 0
	for _, in := range ins {
		inBits += in.Width
	}
	if inBits > MaxInputBits {
		return nil, errAt(line, "module %q has %d input bits, exceeds max of %d", name.Value, inBits, MaxInputBits)
	}
	outBits := 0
	for _, o := range outs {
		outBits += o.Width
	}
	if outBits > MaxOutputBits {
		return nil, errAt(line, "module %q has %d output bits, exceeds max of %d", name.Value, outBits, MaxOutputBits)
	}

	return &Module{
		Name:    name.Value.(string),
		Inputs:  ins,
		Outputs: outs,
		Body:    body,
		Line:    line,
	}, nil
}

// parseParams parses a comma-separated, possibly empty, list of
// identifier-with-optional-bus-size declarations, stopping at end.
func (p *Parser) parseParams(end lex.Type) ([]Param, error) {
	var params []Param
	if p.cur.Type == end {
		return params, nil
	}
	for {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.cur.Type == Comma {
			p.advance()
			continue
		}
		break
	}
	return params, nil
}

// parseOutputs parses the module's declared output list: at least one
// parameter, comma-separated, per the `outputs` production.
func (p *Parser) parseOutputs() ([]Param, error) {
	var outs []Param
	for {
		o, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		outs = append(outs, o)
		if p.cur.Type == Comma {
			p.advance()
			continue
		}
		break
	}
	return outs, nil
}

func (p *Parser) parseParam() (Param, error) {
	line := p.line()
	name, err := p.expect(Ident)
	if err != nil {
		return Param{}, err
	}
	width := 1
	if p.cur.Type == LBracket {
		p.advance()
		n, err := p.expect(Int)
		if err != nil {
			return Param{}, err
		}
		if p.cur.Type == DotDot {
			return Param{}, errAt(p.line(), "bus declaration %q takes a single size, not a range", name.Value)
		}
		if _, err := p.expect(RBracket); err != nil {
			return Param{}, err
		}
		width = n.Value.(int)
		if width < 1 {
			return Param{}, errAt(line, "bus %q must have a positive width", name.Value)
		}
	}
	return Param{Name: name.Value.(string), Width: width, Line: line}, nil
}

func (p *Parser) parseBody() ([]Stmt, error) {
	var body []Stmt
	parts, wires := 0, 0
	for p.cur.Type != RBrace {
		if p.cur.Type == EOF {
			return nil, errAt(p.line(), "unexpected end of input in module body")
		}
		if p.cur.Type == KwTest {
			return nil, errAt(p.line(), "'test' blocks are reserved and not implemented")
		}
		stmt, isPart, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if isPart {
			parts++
			if parts > MaxParts {
				return nil, errAt(p.line(), "too many parts in module (max %d)", MaxParts)
			}
		} else {
			wires++
			if wires > MaxWires {
				return nil, errAt(p.line(), "too many wires in module (max %d)", MaxWires)
			}
		}
		body = append(body, stmt)
	}
	return body, nil
}

// parseStmt parses either a part instantiation or a wire statement,
// disambiguating on the token immediately following the leading
// identifier: ':' or '(' mean a part, anything else starts a wire.
func (p *Parser) parseStmt() (Stmt, bool, error) {
	if p.cur.Type == Ident && (p.next.Type == Colon || p.next.Type == LParen) {
		part, err := p.parsePart()
		if err != nil {
			return Stmt{}, true, err
		}
		return Stmt{Part: part}, true, nil
	}
	wire, err := p.parseWire()
	if err != nil {
		return Stmt{}, false, err
	}
	return Stmt{Wire: wire}, false, nil
}

func (p *Parser) parsePart() (*PartStmt, error) {
	line := p.line()
	var instName string
	if p.next.Type == Colon {
		instTok, err := p.expect(Ident)
		if err != nil {
			return nil, err
		}
		instName = instTok.Value.(string)
		if _, err := p.expect(Colon); err != nil {
			return nil, err
		}
	}
	partTok, err := p.expect(Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen); err != nil {
		return nil, err
	}
	var ins []*Expr
	if p.cur.Type != RParen {
		ins, err = p.parseExprs()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(Arrow); err != nil {
		return nil, err
	}
	outs, err := p.parseExprs()
	if err != nil {
		return nil, err
	}
	return &PartStmt{
		InstName: instName,
		PartName: partTok.Value.(string),
		Inputs:   ins,
		Outputs:  outs,
		Line:     line,
	}, nil
}

func (p *Parser) parseWire() (*WireStmt, error) {
	line := p.line()
	src, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Arrow); err != nil {
		return nil, err
	}
	dst, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &WireStmt{Src: src, Dst: dst, Line: line}, nil
}

func (p *Parser) parseExprs() ([]*Expr, error) {
	var exprs []*Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if p.cur.Type == Comma {
			p.advance()
			continue
		}
		break
	}
	return exprs, nil
}

func (p *Parser) parseExpr() (*Expr, error) {
	line := p.line()
	switch p.cur.Type {
	case LBrace:
		p.advance()
		elems, err := p.parseExprs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBrace); err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprConcat, Elems: elems, Line: line}, nil
	case Ident:
		name := p.cur.Value.(string)
		p.advance()
		e := &Expr{Kind: ExprRef, Name: name, Line: line}
		if p.cur.Type == LBracket {
			p.advance()
			lo, err := p.expect(Int)
			if err != nil {
				return nil, err
			}
			hi := lo.Value.(int)
			if p.cur.Type == DotDot {
				p.advance()
				hiTok, err := p.expect(Int)
				if err != nil {
					return nil, err
				}
				hi = hiTok.Value.(int)
				if hi < lo.Value.(int) {
					return nil, errAt(line, "invalid slice [%d..%d]: end must be >= start", lo.Value.(int), hi)
				}
			}
			if _, err := p.expect(RBracket); err != nil {
				return nil, err
			}
			e.HasSlice = true
			e.SliceLo = lo.Value.(int)
			e.SliceHi = hi
		}
		return e, nil
	case Int, Byte, Word:
		typ := p.cur.Type
		v := p.cur.Value.(int)
		p.advance()
		if p.cur.Type == LBracket {
			return nil, errAt(line, "a literal cannot be sliced")
		}
		width := 1
		switch typ {
		case Byte:
			width = 8
		case Word:
			width = 16
		}
		return &Expr{Kind: ExprLit, Lit: v, LitWidth: width, Line: line}, nil
	case Invalid:
		return nil, errAt(p.cur.Line, "unexpected character %q", p.cur.Value)
	default:
		return nil, errAt(line, "expected identifier, literal, or '{', found %s", tokenName(p.cur.Type))
	}
}
