package cpu

import "github.com/nialljb/dmgcore/addr"

// interruptDispatchCycles is the fixed cost of servicing an interrupt:
// two idle M-cycles, a PC push (2 M-cycles) and the jump to the vector
// (1 M-cycle) — 5 M-cycles, 20 T-cycles, regardless of which source
// fired.
const interruptDispatchCycles = 20

// handleInterrupts reports whether any enabled source is pending in
// IE&IF, waking the caller from HALT regardless of IME. It only
// actually dispatches — pushing PC, clearing the IF bit and jumping to
// the fixed vector, in priority order VBlank>LCDStat>Timer>Serial>
// Joypad — when IME is set; with IME clear it reports true but leaves
// PC and IF untouched, letting Step distinguish a HALT-bug wake from a
// real service.
func (c *CPU) handleInterrupts() bool {
	pending := c.bus.Read(addr.IE) & c.bus.Read(addr.IF) & 0x1F
	if pending == 0 {
		return false
	}

	if !c.interruptsEnabled {
		return true
	}

	for bit := 0; bit < 5; bit++ {
		mask := uint8(1) << bit
		if pending&mask == 0 {
			continue
		}

		c.interruptsEnabled = false
		c.eiPending = false

		flags := c.bus.Read(addr.IF)
		c.bus.Write(addr.IF, flags&^mask)

		c.pushStack(c.r.pc)
		c.r.pc = addr.InterruptVectors[bit]
		c.cycles += interruptDispatchCycles
		return true
	}

	return true
}
