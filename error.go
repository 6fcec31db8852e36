package grci

import "fmt"

// Phase identifies which stage of compilation or simulation an Error
// originated in. The four phases are modeled as one enum on a single
// exported error type rather than four distinct Go error types, since they
// only ever differ in where the message prefix points and whether a line
// number is attached.
type Phase int

const (
	PhaseCompilation Phase = iota
	PhaseSimulation
	PhaseMemory
	PhaseInternal
)

func (p Phase) String() string {
	switch p {
	case PhaseCompilation:
		return "compilation"
	case PhaseSimulation:
		return "simulation"
	case PhaseMemory:
		return "memory"
	default:
		return "internal"
	}
}

// Error is the one error type the public surface returns; it is always
// returned as a bare *Error, never wrapped. Line is zero outside
// Phase == PhaseCompilation.
type Error struct {
	Phase Phase
	Line  int
	Msg   string
}

func (e *Error) Error() string {
	if e.Phase == PhaseCompilation && e.Line > 0 {
		return fmt.Sprintf("GRCI %s error [near line %d]: %s", e.Phase, e.Line, e.Msg)
	}
	return fmt.Sprintf("GRCI %s error: %s", e.Phase, e.Msg)
}
