// Package hdllib holds small .hdl source fixtures used only by tests: a
// handful of gates built directly on Nand, an 8-bit register built on Dff
// with its classic combinational-feedback wiring, a ripple adder, an
// 8-bit program counter, and a tiny LDA/ADD/SUB/STA/HLT computer exercising
// Ram64K end to end. None of this is loaded from a file — it plays the same
// role a hand-written Go fixture plays in a table-driven test, just
// expressed in the language under test rather than in Go.
package hdllib

// Gates is Not/And/Or/Xor/Mux/Mux8, each built from Nand and the gates
// before it, in that dependency order.
const Gates = `
module Not(in) -> out {
    Nand(in, in) -> out
}

module And(a, b) -> out {
    Nand(a, b) -> nandOut
    Not(nandOut) -> out
}

module Or(a, b) -> out {
    Not(a) -> na
    Not(b) -> nb
    Nand(na, nb) -> out
}

module Xor(a, b) -> out {
    Nand(a, b) -> n1
    Nand(a, n1) -> n2
    Nand(b, n1) -> n3
    Nand(n2, n3) -> out
}

module Mux(a, b, sel) -> out {
    Not(sel) -> nsel
    And(a, nsel) -> x
    And(b, sel) -> y
    Or(x, y) -> out
}

module Mux8(a[8], b[8], sel) -> out[8] {
    Mux(a[0], b[0], sel) -> out[0]
    Mux(a[1], b[1], sel) -> out[1]
    Mux(a[2], b[2], sel) -> out[2]
    Mux(a[3], b[3], sel) -> out[3]
    Mux(a[4], b[4], sel) -> out[4]
    Mux(a[5], b[5], sel) -> out[5]
    Mux(a[6], b[6], sel) -> out[6]
    Mux(a[7], b[7], sel) -> out[7]
}
`

// Register is a one-bit latch built directly on Dff with Mux-selected
// load/hold feedback, then an 8-bit bus of them. Depends on Gates.
const Register = `
module Bit(in, load) -> out {
    m: Mux(q, in, load) -> muxOut
    d: Dff(muxOut) -> q
    q -> out
}

module Register(in[8], load) -> out[8] {
    b0: Bit(in[0], load) -> out[0]
    b1: Bit(in[1], load) -> out[1]
    b2: Bit(in[2], load) -> out[2]
    b3: Bit(in[3], load) -> out[3]
    b4: Bit(in[4], load) -> out[4]
    b5: Bit(in[5], load) -> out[5]
    b6: Bit(in[6], load) -> out[6]
    b7: Bit(in[7], load) -> out[7]
}
`

// Adder is a ripple-carry 8-bit adder (overflow discarded). Depends on
// Gates.
const Adder = `
module HalfAdder(a, b) -> sum, carry {
    Xor(a, b) -> sum
    And(a, b) -> carry
}

module FullAdder(a, b, cin) -> sum, cout {
    HalfAdder(a, b) -> s1, c1
    HalfAdder(s1, cin) -> sum, c2
    Or(c1, c2) -> cout
}

module Add8(a[8], b[8]) -> out[8] {
    f0: FullAdder(a[0], b[0], 0) -> out[0], c0
    f1: FullAdder(a[1], b[1], c0) -> out[1], c1
    f2: FullAdder(a[2], b[2], c1) -> out[2], c2
    f3: FullAdder(a[3], b[3], c2) -> out[3], c3
    f4: FullAdder(a[4], b[4], c3) -> out[4], c4
    f5: FullAdder(a[5], b[5], c4) -> out[5], c5
    f6: FullAdder(a[6], b[6], c5) -> out[6], c6
    f7: FullAdder(a[7], b[7], c6) -> out[7], c7
}

// Sub8 computes a - b mod 256 as a + ^b + 1 (two's complement), the same
// ripple chain as Add8 with b inverted and a carry-in of 1 instead of 0.
module Sub8(a[8], b[8]) -> out[8] {
    Not(b[0]) -> nb0
    Not(b[1]) -> nb1
    Not(b[2]) -> nb2
    Not(b[3]) -> nb3
    Not(b[4]) -> nb4
    Not(b[5]) -> nb5
    Not(b[6]) -> nb6
    Not(b[7]) -> nb7
    f0: FullAdder(a[0], nb0, 1) -> out[0], c0
    f1: FullAdder(a[1], nb1, c0) -> out[1], c1
    f2: FullAdder(a[2], nb2, c1) -> out[2], c2
    f3: FullAdder(a[3], nb3, c2) -> out[3], c3
    f4: FullAdder(a[4], nb4, c3) -> out[4], c4
    f5: FullAdder(a[5], nb5, c4) -> out[5], c5
    f6: FullAdder(a[6], nb6, c5) -> out[6], c6
    f7: FullAdder(a[7], nb7, c6) -> out[7], c7
}
`

// PC is an 8-bit program counter: reset takes priority over load, which
// takes priority over inc, which takes priority over holding. Depends on
// Gates, Register and Adder.
const PC = `
module PC(in[8], load, inc, reset) -> out[8] {
    r: Register(nextVal, 1) -> cur
    {1, 0, 0, 0, 0, 0, 0, 0} -> one
    Add8(cur, one) -> inc8
    Mux8(cur, inc8, inc) -> afterInc
    Mux8(afterInc, in, load) -> afterLoad
    {0, 0, 0, 0, 0, 0, 0, 0} -> zero8
    Mux8(afterLoad, zero8, reset) -> nextVal
    cur -> out
}
`

// Decode is a 4-bit equality comparator used to recognize one opcode
// nibble out of an instruction byte. Depends on Gates.
const Decode = `
module Xnor(a, b) -> out {
    Xor(a, b) -> x
    Not(x) -> out
}

module Eq4(a[4], b[4]) -> out {
    Xnor(a[0], b[0]) -> e0
    Xnor(a[1], b[1]) -> e1
    Xnor(a[2], b[2]) -> e2
    Xnor(a[3], b[3]) -> e3
    And(e0, e1) -> x0
    And(e2, e3) -> x1
    And(x0, x1) -> out
}
`

// Computer is the toy machine an 8-bit instruction byte drives: the top
// nibble is an opcode (LDA=1, ADD=2, SUB=3, STA=4, HLT=5), the bottom
// nibble a RAM address. A single shared Ram64K holds both program and
// data, so every instruction pair runs in two clock edges: one with
// phase low, fetching the byte at pc into ir and advancing pc, one with
// phase high, addressing ram by ir's operand nibble and applying the
// decoded opcode to acc (or, for STA, writing acc back). The STA write
// only ever touches its own addressed byte: Ram64K's 16-bit words
// straddle two adjacent bytes (see netlist.RAMBlock), so the high byte
// handed back to ram on a write is read back from ram itself rather than
// zero-filled, leaving the neighboring byte untouched. HLT simply holds
// phase, pc, ir and acc wherever they were and reports halted; only reset
// clears the condition. Depends on Gates, Register, Adder, PC and Decode.
const Computer = `
module Computer(reset) -> halted {
    ph: Dff(phaseD) -> phase
    Not(phase) -> notPhase
    Mux(notPhase, phase, haltNow) -> phaseNext
    Mux(phaseNext, 0, reset) -> phaseD

    pc: PC({0, 0, 0, 0, 0, 0, 0, 0}, 0, notPhase, reset) -> pcVal
    ir: Register(ramOut[0..7], notPhase) -> instr

    Eq4(instr[4..7], {1, 0, 0, 0}) -> isLDA
    Eq4(instr[4..7], {0, 1, 0, 0}) -> isADD
    Eq4(instr[4..7], {1, 1, 0, 0}) -> isSUB
    Eq4(instr[4..7], {0, 0, 1, 0}) -> isSTA
    Eq4(instr[4..7], {1, 0, 1, 0}) -> isHLT

    And(phase, isLDA) -> loadSel
    And(phase, isADD) -> addSel
    And(phase, isSUB) -> subSel
    And(phase, isSTA) -> writeEnable
    And(phase, isHLT) -> haltNow
    haltNow -> halted

    acc: Register(accNext, 1) -> accVal
    Add8(accVal, ramOut[0..7]) -> accAdd
    Sub8(accVal, ramOut[0..7]) -> accSub
    Mux8(accVal, ramOut[0..7], loadSel) -> accStep1
    Mux8(accStep1, accAdd, addSel) -> accStep2
    Mux8(accStep2, accSub, subSel) -> accNext

    {instr[0..3], 0, 0, 0, 0} -> operandAddr8
    Mux8(pcVal, operandAddr8, phase) -> addrLowByte
    {addrLowByte, 0, 0, 0, 0, 0, 0, 0, 0} -> ramAddr
    {accVal, ramOut[8..15]} -> ramDataIn

    ram: Ram64K(ramDataIn, writeEnable, ramAddr) -> ramOut
}
`
