package hdl

import "testing"

func TestParseSimpleModule(t *testing.T) {
	src := `
module And(a, b) -> out {
    Nand(a, b) -> n
    Not(n) -> out
}
`
	f, err := ParseFile([]byte(src))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Modules) != 1 {
		t.Fatalf("got %d modules, want 1", len(f.Modules))
	}
	m := f.Modules[0]
	if m.Name != "And" {
		t.Fatalf("name = %q", m.Name)
	}
	if len(m.Inputs) != 2 || m.Inputs[0].Name != "a" || m.Inputs[1].Name != "b" {
		t.Fatalf("inputs = %+v", m.Inputs)
	}
	if len(m.Outputs) != 1 || m.Outputs[0].Name != "out" {
		t.Fatalf("outputs = %+v", m.Outputs)
	}
	if len(m.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(m.Body))
	}
	if m.Body[0].Part == nil || m.Body[0].Part.PartName != "Nand" {
		t.Fatalf("statement 0 = %+v", m.Body[0])
	}
	if m.Body[1].Part == nil || m.Body[1].Part.PartName != "Not" {
		t.Fatalf("statement 1 = %+v", m.Body[1])
	}
}

func TestParseBusWidthsAndInstanceNames(t *testing.T) {
	src := `
module Add8(a[8], b[8]) -> out[8] {
    f0: FullAdder(a[0], b[0], 0) -> out[0], c0
}
`
	f, err := ParseFile([]byte(src))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	m := f.Modules[0]
	if m.Inputs[0].Width != 8 || m.Inputs[1].Width != 8 {
		t.Fatalf("input widths = %+v", m.Inputs)
	}
	if m.Outputs[0].Width != 8 {
		t.Fatalf("output width = %+v", m.Outputs)
	}
	p := m.Body[0].Part
	if p.InstName != "f0" {
		t.Fatalf("inst name = %q", p.InstName)
	}
	if len(p.Inputs) != 3 || len(p.Outputs) != 2 {
		t.Fatalf("part shape = %+v", p)
	}
	if !p.Inputs[0].HasSlice || p.Inputs[0].SliceLo != 0 || p.Inputs[0].SliceHi != 0 {
		t.Fatalf("a[0] expr = %+v", p.Inputs[0])
	}
	if p.Inputs[2].Kind != ExprLit || p.Inputs[2].Lit != 0 {
		t.Fatalf("literal input = %+v", p.Inputs[2])
	}
}

func TestParseSliceRange(t *testing.T) {
	src := `
module M(a[8]) -> out[4] {
    a[0..3] -> out
}
`
	f, err := ParseFile([]byte(src))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	w := f.Modules[0].Body[0].Wire
	if w == nil || !w.Src.HasSlice || w.Src.SliceLo != 0 || w.Src.SliceHi != 3 {
		t.Fatalf("wire src = %+v", w)
	}
}

func TestParseConcatenation(t *testing.T) {
	src := `
module M() -> out[3] {
    {1, 0, 1} -> out
}
`
	f, err := ParseFile([]byte(src))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	w := f.Modules[0].Body[0].Wire
	if w == nil || w.Src.Kind != ExprConcat || len(w.Src.Elems) != 3 {
		t.Fatalf("wire src = %+v", w)
	}
}

func TestParseRejectsTestBlock(t *testing.T) {
	src := `
module M(a) -> out {
    test { }
}
`
	_, err := ParseFile([]byte(src))
	if err == nil {
		t.Fatal("expected an error for a 'test' block")
	}
}

func TestParseRejectsSlicedLiteral(t *testing.T) {
	src := `
module M() -> out {
    1[0] -> out
}
`
	_, err := ParseFile([]byte(src))
	if err == nil {
		t.Fatal("expected an error slicing a literal")
	}
}

func TestParseRejectsBusDeclarationRange(t *testing.T) {
	src := `module M(a[0..3]) -> out { Nand(a, a) -> out }`
	_, err := ParseFile([]byte(src))
	if err == nil {
		t.Fatal("expected an error for a ranged bus declaration")
	}
}

func TestParseErrorReportsLine(t *testing.T) {
	src := "module M(a) -> out {\n  Nand(a) ->\n}"
	_, err := ParseFile([]byte(src))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var se *SyntaxError
	if !asSyntaxError(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
	if se.Line != 3 {
		t.Fatalf("expected error near line 3, got %d: %v", se.Line, err)
	}
}

func asSyntaxError(err error, target **SyntaxError) bool {
	if se, ok := err.(*SyntaxError); ok {
		*target = se
		return true
	}
	return false
}

func TestParseTooManyModules(t *testing.T) {
	var src string
	for i := 0; i <= MaxModules; i++ {
		src += "module M" + itoa(i) + "() -> out { 0 -> out }\n"
	}
	_, err := ParseFile([]byte(src))
	if err == nil {
		t.Fatal("expected an error for too many modules")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
