package netlist

import (
	"testing"

	"github.com/tbui468/grci/internal/arena"
)

func instantiate(t *testing.T, desc *ModuleDesc) *Instance {
	t.Helper()
	a := arena.New((desc.NodeCount + 3) * 64)
	inst, err := Instantiate(desc, a)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	return inst
}

func set(t *testing.T, inst *Instance, vals ...byte) {
	t.Helper()
	for i, v := range vals {
		if err := inst.PublishInput(i, v); err != nil {
			t.Fatalf("PublishInput(%d): %v", i, err)
		}
	}
}

func out(t *testing.T, inst *Instance, i int) byte {
	t.Helper()
	b, err := inst.EvalOutput(i)
	if err != nil {
		t.Fatalf("EvalOutput(%d): %v", i, err)
	}
	return b
}

func TestNandTruthTable(t *testing.T) {
	inst := instantiate(t, Nand)
	cases := []struct{ a, b, want byte }{
		{0, 0, 1}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0},
	}
	for _, c := range cases {
		inst.ClearCombinational()
		set(t, inst, c.a, c.b)
		if got := out(t, inst, 0); got != c.want {
			t.Fatalf("Nand(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDffHoldsUntilRisingEdge(t *testing.T) {
	inst := instantiate(t, Dff)
	if got := out(t, inst, 0); got != 0 {
		t.Fatalf("initial Q = %d, want 0", got)
	}

	set(t, inst, 1) // D = 1
	inst.ClearCombinational()
	if got := out(t, inst, 0); got != 0 {
		t.Fatalf("Q before any rising edge = %d, want 0 (D changes have no effect until clocked)", got)
	}

	// Drive one full clock cycle: ResetClock toggles 1->0 first (falling,
	// no effect), a second toggle 0->1 is the rising edge.
	inst.ResetClock()
	level := inst.ResetClock()
	if level != 1 {
		t.Fatalf("expected rising edge on second toggle, level = %d", level)
	}
	if err := inst.AdvanceClockedState(); err != nil {
		t.Fatalf("AdvanceClockedState: %v", err)
	}
	inst.ClearCombinational()
	if got := out(t, inst, 0); got != 1 {
		t.Fatalf("Q after rising edge = %d, want 1", got)
	}
}

func TestRAM64KWriteThenReadBack(t *testing.T) {
	inst := instantiate(t, Ram64K)

	// Inputs: in[16] (bits 0-15), load (bit 16), address[16] (bits 17-32).
	drive := func(value, load, addr int) {
		for i := 0; i < 16; i++ {
			if err := inst.PublishInput(i, byte((value>>uint(i))&1)); err != nil {
				t.Fatalf("PublishInput: %v", err)
			}
		}
		if err := inst.PublishInput(16, byte(load)); err != nil {
			t.Fatalf("PublishInput: %v", err)
		}
		for i := 0; i < 16; i++ {
			if err := inst.PublishInput(17+i, byte((addr>>uint(i))&1)); err != nil {
				t.Fatalf("PublishInput: %v", err)
			}
		}
	}

	readWord := func() int {
		v := 0
		for i := 0; i < 16; i++ {
			v |= int(out(t, inst, i)) << uint(i)
		}
		return v
	}

	drive(0x1234, 0, 7)
	inst.ClearCombinational()
	if got := readWord(); got != 0 {
		t.Fatalf("uninitialized word at address 7 = %#x, want 0", got)
	}

	// Rising edge with load=1 writes 0x1234 at address 7.
	drive(0x1234, 1, 7)
	inst.ClearCombinational()
	inst.ResetClock()
	if level := inst.ResetClock(); level != 1 {
		t.Fatal("expected rising edge")
	}
	if err := inst.AdvanceClockedState(); err != nil {
		t.Fatalf("AdvanceClockedState: %v", err)
	}
	inst.ClearCombinational()
	if got := readWord(); got != 0x1234 {
		t.Fatalf("word at address 7 after write = %#x, want 0x1234", got)
	}

	// A non-overlapping address is unaffected (address 7's word occupies
	// bytes 7-8; address 100 shares no byte with it).
	drive(0xFFFF, 0, 100)
	inst.ClearCombinational()
	if got := readWord(); got != 0 {
		t.Fatalf("word at address 100 = %#x, want 0", got)
	}
}

func TestEvalOutputDetectsCombinationalCycle(t *testing.T) {
	a := arena.New(64)
	b := &builder{
		nodes: arena.AllocSlice[Node](a, 4),
		named: map[string]SubmoduleRange{},
	}
	n := b.allocNode()
	n.Kind = NodeNand
	n.A = n
	n.B = n
	inst := &Instance{Outputs: []Slot{fixedSlot(n)}}
	if _, err := inst.EvalOutput(0); err == nil {
		t.Fatal("expected a combinational-cycle error")
	}
}
