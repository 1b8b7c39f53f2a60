// Package doctor formats Gameboy-Doctor-compatible trace lines: a
// per-instruction snapshot of registers and the four bytes at PC,
// used to diff a run against a known-good reference log.
package doctor

import "fmt"

// CPUState is the minimal register snapshot TraceLine needs. Machine
// and cpu.CPU both expose accessors matching these fields; callers
// build one from whichever they have rather than this package
// depending on either.
type CPUState struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

// MemoryReader is satisfied by *memory.MMU; kept as an interface here
// so this package has no dependency on memory at all.
type MemoryReader interface {
	Read(address uint16) byte
}

// TraceLine formats state and the four bytes starting at PC in the
// exact layout Gameboy Doctor expects:
//
//	A:01 F:B0 B:00 C:13 D:00 E:D8 H:01 L:4D SP:FFFE PC:0100 PCMEM:00,C3,37,06
func TraceLine(state CPUState, mem MemoryReader) string {
	pcmem := [4]byte{
		mem.Read(state.PC),
		mem.Read(state.PC + 1),
		mem.Read(state.PC + 2),
		mem.Read(state.PC + 3),
	}
	return fmt.Sprintf(
		"A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X PCMEM:%02X,%02X,%02X,%02X",
		state.A, state.F, state.B, state.C, state.D, state.E, state.H, state.L,
		state.SP, state.PC,
		pcmem[0], pcmem[1], pcmem[2], pcmem[3],
	)
}
