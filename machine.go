// Package dmgcore wires the CPU, MMU, timer, DMA engine and PPU into a
// single steppable unit. Nothing here holds any backing storage of its
// own; the MMU remains the one owner of memory, so Machine is just a
// fixed execution order around it.
package dmgcore

import (
	"github.com/nialljb/dmgcore/cpu"
	"github.com/nialljb/dmgcore/memory"
	"github.com/nialljb/dmgcore/serial"
	"github.com/nialljb/dmgcore/video"
)

// Machine owns one of each component and steps them in the fixed
// order real hardware observes: the CPU executes (or services an
// interrupt), then every cycle it spent is handed to the bus-owned
// devices (timer, serial, DMA) and to the PPU.
type Machine struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	PPU *video.PPU
}

// New returns a Machine with no cartridge inserted, for tests that
// only exercise RAM-resident code.
func New() *Machine {
	mmu := memory.New()
	return &Machine{
		CPU: cpu.New(mmu),
		MMU: mmu,
		PPU: video.NewPPU(mmu),
	}
}

// NewWithCartridge returns a Machine with cart mapped in at 0x0000.
func NewWithCartridge(cart *memory.Cartridge) *Machine {
	mmu := memory.NewWithCartridge(cart)
	return &Machine{
		CPU: cpu.New(mmu),
		MMU: mmu,
		PPU: video.NewPPU(mmu),
	}
}

// SetStrictTiming toggles the MMU's VRAM/OAM bus-contention
// arbitration during PPU modes 2/3 and active DMA transfers.
func (m *Machine) SetStrictTiming(enabled bool) {
	m.MMU.StrictTiming = enabled
}

// SetSerialSink replaces the default log-based serial sink, letting a
// host capture the byte stream test ROMs report progress through.
func (m *Machine) SetSerialSink(sink serial.Sink) {
	m.MMU.Serial = sink
}

// Step executes exactly one CPU instruction (or one interrupt
// dispatch, or one HALT tick) and advances every other device by the
// same number of T-cycles, returning that count. An illegal opcode is
// reported through err without corrupting machine state: the CPU's PC
// still points at the offending byte, so a host can resume after
// patching memory or surface the failure.
func (m *Machine) Step() (int, error) {
	cycles, err := m.CPU.Step()
	if err != nil {
		return 0, err
	}

	m.MMU.Tick(cycles)
	m.PPU.Tick(cycles)

	return cycles, nil
}

// StepFrame runs Step until at least one full frame's worth of cycles
// (70224 T-cycles, the PPU's scanline budget) has elapsed, returning
// early with the error from Step if one occurs mid-frame.
func (m *Machine) StepFrame() error {
	const cyclesPerFrame = 70224
	spent := 0
	for spent < cyclesPerFrame {
		cycles, err := m.Step()
		if err != nil {
			return err
		}
		spent += cycles
	}
	return nil
}

// FrameBuffer exposes the PPU's current, read-only pixel buffer.
func (m *Machine) FrameBuffer() *video.FrameBuffer {
	return m.PPU.FrameBuffer()
}
