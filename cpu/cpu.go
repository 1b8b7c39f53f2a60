// Package cpu implements the Sharp LR35902 instruction execution
// engine: fetch/decode/execute, the HALT/STOP quirks, and interrupt
// dispatch. It never touches backing storage directly, only through
// the Bus it is constructed with.
package cpu

import (
	"errors"
	"fmt"

	"github.com/nialljb/dmgcore/addr"
)

// Bus is everything the CPU needs from the rest of the machine. *memory.MMU
// satisfies it; tests can swap in a smaller fake.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	RequestInterrupt(interrupt addr.Interrupt)
}

// ErrIllegalOpcode is returned by Step when it decodes one of the
// eleven bytes the unprefixed table leaves undefined — real hardware
// locks up on these; this core reports them instead of crashing.
var ErrIllegalOpcode = errors.New("cpu: illegal opcode")

// ErrUnimplementedOpcode is distinct from ErrIllegalOpcode: it is
// reserved for a host that deliberately disables part of the table
// (e.g. to fuzz-test decode robustness) rather than a byte that is
// illegal on real hardware. The full instruction set is implemented,
// so Step never produces this on its own.
var ErrUnimplementedOpcode = errors.New("cpu: unimplemented opcode")

// CPU is the execution engine: registers, the interrupt master-enable
// state machine, and the bus it fetches from and writes through.
type CPU struct {
	bus Bus
	r   registers

	// interruptsEnabled is IME. eiPending implements EI's one
	// instruction delay: EI schedules IME to turn on only after the
	// *next* instruction completes, not immediately.
	interruptsEnabled bool
	eiPending         bool

	halted  bool
	haltBug bool

	currentOpcode uint8
	cycles        uint64
}

// New returns a CPU wired to bus, with registers already in the state
// the real boot ROM leaves them in on a DMG — this core never executes
// the boot ROM itself, so every run starts from this snapshot instead.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.r.af = 0x01B0
	c.r.bc = 0x0013
	c.r.de = 0x00D8
	c.r.hl = 0x014D
	c.r.sp = 0xFFFE
	c.r.pc = 0x0100
	return c
}

func (c *CPU) PC() uint16 { return c.r.pc }
func (c *CPU) SP() uint16 { return c.r.sp }
func (c *CPU) A() uint8   { return c.r.a() }
func (c *CPU) F() uint8   { return c.r.f() }
func (c *CPU) B() uint8   { return c.r.b() }
func (c *CPU) C() uint8   { return c.r.c() }
func (c *CPU) D() uint8   { return c.r.d() }
func (c *CPU) E() uint8   { return c.r.e() }
func (c *CPU) H() uint8   { return c.r.h() }
func (c *CPU) L() uint8   { return c.r.l() }
func (c *CPU) BC() uint16 { return c.r.bc }
func (c *CPU) DE() uint16 { return c.r.de }
func (c *CPU) HL() uint16 { return c.r.hl }

// SetPC/SetSP/SetRegisters let a host seed post-boot-ROM state without
// exposing the registers struct itself.
func (c *CPU) SetPC(value uint16) { c.r.pc = value }
func (c *CPU) SetSP(value uint16) { c.r.sp = value }
func (c *CPU) SetAF(value uint16) { c.r.af = value & 0xFFF0 }
func (c *CPU) SetBC(value uint16) { c.r.bc = value }
func (c *CPU) SetDE(value uint16) { c.r.de = value }
func (c *CPU) SetHL(value uint16) { c.r.hl = value }

func (c *CPU) Halted() bool { return c.halted }
func (c *CPU) Cycles() uint64 { return c.cycles }

func (c *CPU) fetch8() uint8 {
	value := c.bus.Read(c.r.pc)
	c.r.pc++
	return value
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) pushStack(value uint16) {
	c.r.sp--
	c.bus.Write(c.r.sp, high(value))
	c.r.sp--
	c.bus.Write(c.r.sp, low(value))
}

func (c *CPU) popStack() uint16 {
	lo := uint16(c.bus.Read(c.r.sp))
	c.r.sp++
	hi := uint16(c.bus.Read(c.r.sp))
	c.r.sp++
	return hi<<8 | lo
}

// Step executes exactly one instruction (after first checking for a
// pending interrupt dispatch) and returns the number of T-cycles it
// took. An instruction byte outside the table returns
// ErrIllegalOpcode with 0 cycles so a host can decide whether to
// treat it as fatal.
func (c *CPU) Step() (int, error) {
	before := c.cycles

	if c.halted {
		imeWasOff := !c.interruptsEnabled
		if pending := c.handleInterrupts(); pending {
			c.halted = false
			if imeWasOff {
				// HALT bug: IME was off when the wake happened, so the
				// CPU doesn't actually jump to a handler; the next
				// fetch reads the byte after HALT twice instead.
				// handleInterrupts itself may have left IME off or
				// turned it off as a side effect of dispatching, so
				// this has to be decided from the snapshot taken
				// before the call, not from the post-call state.
				c.haltBug = true
			}
		}
		if c.halted {
			return c.tickHalted(), nil
		}
		if used := c.cycles - before; used > 0 {
			// handleInterrupts dispatched directly out of HALT.
			return int(used), nil
		}
	} else if dispatched := c.handleInterrupts(); dispatched && c.cycles != before {
		return int(c.cycles - before), nil
	}

	// EI's delay: IME flips on only once the instruction *following*
	// EI has fully executed.
	applyEIAfterThisStep := c.eiPending

	opcode := c.fetch8()
	c.currentOpcode = opcode

	if c.haltBug {
		// HALT executed with IME=0 and a pending-enabled interrupt
		// already latched: the PC increment from the fetch above is
		// undone once, so the byte after HALT is fetched twice.
		c.r.pc--
		c.haltBug = false
	}

	entry := opcodeTable[opcode]
	if entry == nil {
		return 0, fmt.Errorf("%w: 0x%02X at 0x%04X", ErrIllegalOpcode, opcode, c.r.pc-1)
	}

	cyclesUsed := entry(c)

	// The instruction that just ran may itself have touched eiPending
	// (DI cancels a pending EI), so the flush only fires if it's still
	// pending now, not just when EI set it up before this fetch.
	if applyEIAfterThisStep && c.eiPending {
		c.interruptsEnabled = true
		c.eiPending = false
	}

	c.cycles += uint64(cyclesUsed)
	return cyclesUsed, nil
}

// tickHalted spends 4 cycles per call while halted; HALT is exited by
// handleInterrupts the next time a pending-and-enabled interrupt is
// observed, regardless of IME.
func (c *CPU) tickHalted() int {
	const haltTickCycles = 4
	c.cycles += haltTickCycles
	return haltTickCycles
}

func (c *CPU) opcodeCB() int {
	sub := c.fetch8()
	entry := cbTable[sub]
	return entry(c)
}
