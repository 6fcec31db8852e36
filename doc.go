/*
Package grci compiles and simulates circuits written in a small structural
hardware description language: source text declares modules built from a
built-in NAND gate, a D-type flip-flop, and a 64K x 16 RAM, wired together
by bit-level connections.

A Context compiles source text into module descriptions; NewModule
elaborates a named description into a runnable Module with its own input
and output vectors. Step advances the simulation by one half-cycle,
publishing inputs, toggling the clock, advancing clocked state on a rising
edge, and then evaluating the outputs, in that order. Submodule exposes the internal state of any
instance that was given a name at its declaration site, for snapshotting or
restoring simulation state between steps.
*/
package grci
