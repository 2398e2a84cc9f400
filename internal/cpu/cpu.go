// Package cpu implements a cycle-accurate MOS 6502-family interpreter for
// the legal NES opcode set plus the unofficial opcodes exercised by
// conformance ROMs (DCP, ISC, LAX, SAX, SLO, RLA, RRA, SRE, DOP/TOP).
package cpu

import (
	"errors"
	"fmt"
)

// ErrIllegalOpcode is returned (and fatal at run per policy) when the CPU
// decodes a byte with no table entry.
var ErrIllegalOpcode = errors.New("illegal cpu opcode")

// Memory is the bus the CPU reads/writes through. Write returns the number
// of extra CPU cycles the bus imposes on this access (e.g. an OAM DMA
// trigger stalls the CPU for 513/514 cycles).
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8) uint16
	Read16(addr uint16) uint16
	Read16NoCross(addr uint16) uint16
}

// AddressingMode identifies how an opcode's operand address is computed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (Indirect,X)
	IndirectIndexed // (Indirect),Y
	Relative
)

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	flagN uint8 = 1 << 7
	flagV uint8 = 1 << 6
	flagU uint8 = 1 << 5 // always-set bit, never stored logically
	flagB uint8 = 1 << 4
	flagD uint8 = 1 << 3
	flagI uint8 = 1 << 2
	flagZ uint8 = 1 << 1
	flagC uint8 = 1 << 0
)

// execFunc implements an opcode's side effects and returns extra cycles
// beyond the instruction's nominal count (branch-taken, page-crossing).
type execFunc func(c *CPU, addr uint16, mode AddressingMode, pageCrossed bool) int

// Instruction is one entry of the 256-byte dispatch table.
type Instruction struct {
	Name   string
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
	exec   execFunc
}

// CPU holds 6502 register and cycle-accounting state. Status flags are
// tracked as individual logical bits; the always-set bit 5 and the B flag
// only exist when the status byte is materialized (pushed or read).
type CPU struct {
	PC uint16
	SP uint8
	A, X, Y uint8

	N, V, D, I, Z, C bool

	memory Memory

	cycles          uint64 // total_cycles
	remainingCycles int    // cycles still owed for the in-flight opcode

	nmiPending bool
	irqLine    bool

	dmaStall int // extra cycles imposed by the bus on the in-flight write (OAM DMA)

	instructions [256]*Instruction
}

// New creates a CPU wired to the given bus. Call Reset before stepping.
func New(memory Memory) *CPU {
	c := &CPU{memory: memory}
	c.initInstructions()
	return c
}

// Reset performs the 6502 power-on/reset sequence: three dummy stack
// accesses (SP decrements without writing), I set, PC loaded from the
// reset vector, charging 7 cycles.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.N, c.V, c.D, c.Z, c.C = false, false, false, false, false
	c.I = true
	c.PC = c.memory.Read16(resetVector)
	c.cycles += 7
	c.remainingCycles = 6
	c.nmiPending = false
	c.irqLine = false
}

// TriggerNMI edge-latches a non-maskable interrupt, serviced before the
// next opcode fetch.
func (c *CPU) TriggerNMI() { c.nmiPending = true }

// SetIRQLine sets the level-triggered IRQ line state.
func (c *CPU) SetIRQLine(asserted bool) { c.irqLine = asserted }

// TotalCycles returns the monotonic CPU cycle counter.
func (c *CPU) TotalCycles() uint64 { return c.cycles }

// Step advances the CPU by exactly one master CPU cycle.
func (c *CPU) Step() error {
	if c.remainingCycles > 0 {
		c.remainingCycles--
		return nil
	}

	if c.nmiPending {
		c.handleNMI()
		return nil
	}
	if c.irqLine && !c.I {
		c.handleIRQ()
		return nil
	}

	opcode := c.memory.Read(c.PC)
	inst := c.instructions[opcode]
	if inst == nil {
		return fmt.Errorf("%w: $%02X at $%04X", ErrIllegalOpcode, opcode, c.PC)
	}
	c.PC++

	addr, pageCrossed := c.operandAddress(inst.Mode)
	extra := inst.exec(c, addr, inst.Mode, pageCrossed)

	total := int(inst.Cycles) + extra + c.dmaStall
	c.dmaStall = 0
	c.cycles += uint64(total)
	c.remainingCycles = total - 1
	return nil
}

func (c *CPU) handleNMI() {
	c.nmiPending = false
	c.pushWord(c.PC)
	c.push(c.statusByte(false))
	c.I = true
	c.PC = c.memory.Read16(nmiVector)
	c.cycles += 7
	c.remainingCycles = 6
}

func (c *CPU) handleIRQ() {
	c.pushWord(c.PC)
	c.push(c.statusByte(false))
	c.I = true
	c.PC = c.memory.Read16(irqVector)
	c.cycles += 7
	c.remainingCycles = 6
}

// statusByte materializes the logical flags into the N V 1 B D I Z C
// layout. brk selects whether the B bit is set (software BRK/PHP) or
// clear (hardware NMI/IRQ entry).
func (c *CPU) statusByte(brk bool) uint8 {
	var s uint8 = flagU
	if c.N {
		s |= flagN
	}
	if c.V {
		s |= flagV
	}
	if brk {
		s |= flagB
	}
	if c.D {
		s |= flagD
	}
	if c.I {
		s |= flagI
	}
	if c.Z {
		s |= flagZ
	}
	if c.C {
		s |= flagC
	}
	return s
}

// GetStatusByte returns the status byte as it would be read from a push.
func (c *CPU) GetStatusByte() uint8 { return c.statusByte(false) }

// SetStatusByte restores flags from a materialized status byte (used to
// seed a CPU at a conformance-test entry point, e.g. nestest's P:24).
func (c *CPU) SetStatusByte(s uint8) { c.setStatusFromByte(s) }

// PendingCycles reports how many cycles remain owed for the in-flight
// instruction.
func (c *CPU) PendingCycles() int { return c.remainingCycles }

// SetTotalCycles seeds the cycle counter (used to match a conformance
// trace's convention of counting the 7 power-on cycles before PC=$C000).
func (c *CPU) SetTotalCycles(n uint64) { c.cycles = n }

// setStatusFromByte restores N,V,D,I,Z,C from a byte; the B and unused
// bits are never persisted (PLP/RTI discard them).
func (c *CPU) setStatusFromByte(s uint8) {
	c.N = s&flagN != 0
	c.V = s&flagV != 0
	c.D = s&flagD != 0
	c.I = s&flagI != 0
	c.Z = s&flagZ != 0
	c.C = s&flagC != 0
}

func (c *CPU) push(v uint8) {
	c.writeMemory(stackBase|uint16(c.SP), v)
	c.SP--
}

// writeMemory routes every bus write through the CPU so stall cycles the
// bus imposes (OAM DMA trigger at $4014) accumulate against the in-flight
// instruction's cycle count.
func (c *CPU) writeMemory(addr uint16, v uint8) {
	c.dmaStall += int(c.memory.Write(addr, v))
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.memory.Read(stackBase | uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// operandAddress computes the effective address for mode, advancing PC
// past the operand bytes, and reports whether an indexed access crossed a
// page boundary (needed by the caller to decide the page-crossing bonus).
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false
	case Immediate:
		addr := c.PC
		c.PC++
		return addr, false
	case ZeroPage:
		addr := uint16(c.memory.Read(c.PC))
		c.PC++
		return addr, false
	case ZeroPageX:
		addr := uint16(c.memory.Read(c.PC) + c.X)
		c.PC++
		return addr, false
	case ZeroPageY:
		addr := uint16(c.memory.Read(c.PC) + c.Y)
		c.PC++
		return addr, false
	case Absolute:
		addr := c.memory.Read16(c.PC)
		c.PC += 2
		return addr, false
	case AbsoluteX:
		base := c.memory.Read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		return addr, base&0xFF00 != addr&0xFF00
	case AbsoluteY:
		base := c.memory.Read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		return addr, base&0xFF00 != addr&0xFF00
	case Indirect:
		ptr := c.memory.Read16(c.PC)
		c.PC += 2
		return c.memory.Read16NoCross(ptr), false
	case IndexedIndirect:
		zp := uint16(c.memory.Read(c.PC) + c.X)
		c.PC++
		return c.memory.Read16NoCross(zp & 0x00FF), false
	case IndirectIndexed:
		zp := uint16(c.memory.Read(c.PC))
		c.PC++
		base := c.memory.Read16NoCross(zp)
		addr := base + uint16(c.Y)
		return addr, base&0xFF00 != addr&0xFF00
	case Relative:
		offset := int8(c.memory.Read(c.PC))
		c.PC++
		next := c.PC
		target := uint16(int32(next) + int32(offset))
		return target, next&0xFF00 != target&0xFF00
	}
	return 0, false
}

func readBonus(crossed bool) int {
	if crossed {
		return 1
	}
	return 0
}

func (c *CPU) loadOperand(addr uint16, mode AddressingMode) uint8 {
	if mode == Accumulator {
		return c.A
	}
	return c.memory.Read(addr)
}

func (c *CPU) storeOperand(addr uint16, mode AddressingMode, v uint8) {
	if mode == Accumulator {
		c.A = v
		return
	}
	c.writeMemory(addr, v)
}
