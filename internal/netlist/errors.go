package netlist

import "github.com/pkg/errors"

// errCombinationalCycle is panicked by evalCombinational when a node is
// revisited while still on the recursion stack, and recovered by
// EvalOutput/AdvanceClockedState into an ordinary error: an internal error
// rather than an infinite loop, per the defensive cycle-detection this
// module adds beyond strictly-required behavior.
var errCombinationalCycle = errors.New("netlist: unbounded combinational fan-in (cycle with no clocked element)")

// recoverCycle turns a panic raised by evalCombinational back into an
// error, leaving any other panic to propagate.
func recoverCycle(errp *error) {
	if r := recover(); r != nil {
		if r == errCombinationalCycle {
			*errp = errCombinationalCycle
			return
		}
		panic(r)
	}
}
