package memory

import (
	"fmt"
	"log/slog"

	"github.com/nialljb/dmgcore/addr"
	"github.com/nialljb/dmgcore/bit"
	"github.com/nialljb/dmgcore/dma"
	"github.com/nialljb/dmgcore/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// MMU is the single owner of every backing array in the system: ROM
// (through the cartridge's MBC), VRAM, work RAM, OAM, and the
// memory-mapped registers of the timer, joypad, serial port and DMA
// engine. The CPU and PPU never see backing storage directly, only
// this decoder.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []byte
	regionMap [256]memRegion

	Joypad *Joypad
	Timer  *Timer
	Serial serial.Sink
	DMA    *dma.Engine

	// StrictTiming gates VRAM/OAM access arbitration during PPU modes
	// 2/3 and active DMA. Disabled by default since most test ROMs
	// don't rely on it and it costs a STAT read on every bus access.
	StrictTiming bool

	// RequestInterrupt is overwritten with the real IF-setting logic
	// below; kept as a method, not a field, so nothing but this file
	// needs to know about addr.Interrupt's bit layout.
}

// New returns an MMU with no cartridge inserted (all ROM reads as
// 0xFF), used for unit tests that only exercise RAM/IO behavior.
func New() *MMU {
	m := &MMU{
		memory: make([]byte, 0x10000),
		cart:   NewCartridge(),
		Joypad: NewJoypad(),
		Timer:  NewTimer(),
		DMA:    dma.NewEngine(),
	}
	m.mbc = NewNoMBC(m.cart.Data())
	m.Serial = serial.NewLogSink(func() { m.RequestInterrupt(addr.SerialInterrupt) })
	m.Timer.RequestInterrupt = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.Timer.Seed(postBootDIV)
	initRegionMap(m)
	return m
}

// postBootDIV is the internal 16-bit counter value the real boot ROM
// leaves behind on a DMG; its high byte is the post-boot DIV reading.
const postBootDIV = 0xABCC

// NewWithCartridge returns an MMU with cart mapped in through a
// static, MBC-less 32 KiB ROM mapper.
func NewWithCartridge(cart *Cartridge) *MMU {
	m := New()
	m.cart = cart
	m.mbc = NewNoMBC(cart.Data())
	return m
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionOAM
	m.regionMap[0xFF] = regionIO
}

// Tick advances every device hanging off the bus by the number of
// T-cycles the CPU just spent executing an instruction.
func (m *MMU) Tick(cycles int) {
	m.Timer.Tick(cycles)
	if m.Serial != nil {
		m.Serial.Tick(cycles)
	}
	m.DMA.Tick(cycles, m, m)
}

// RequestInterrupt sets the given interrupt's bit in IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	flags := m.memory[addr.IF]
	m.memory[addr.IF] = flags | uint8(interrupt)
}

// ReadBit reads a single bit out of the byte at address.
func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

// ppuMode reports the PPU mode (STAT bits 1-0) without the memory
// package needing to import video: the PPU already publishes its mode
// into STAT on every transition, so the MMU just reads it back.
func (m *MMU) ppuMode() uint8 {
	return m.memory[addr.STAT] & 0x03
}

// Read resolves a 16-bit address to its backing byte. VRAM reads
// during PPU mode 3 and OAM reads during modes 2/3 or an active DMA
// transfer return 0xFF when StrictTiming is enabled, mirroring real
// hardware's bus contention.
func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		return m.mbc.Read(address)
	case regionVRAM:
		if m.StrictTiming && m.ppuMode() == 3 {
			return 0xFF
		}
		return m.memory[address]
	case regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address > 0xFE9F {
			return 0xFF // prohibited area always reads 0xFF
		}
		if m.StrictTiming && (m.DMA.Active() || m.ppuMode() == 2 || m.ppuMode() == 3) {
			return 0xFF
		}
		return m.memory[address]
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("unmapped read at 0x%04X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.Serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.Timer.Read(address)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		// No synthesis; registers behave as plain open-bus storage so
		// games that probe them for hardware detection don't break.
		return m.memory[address]
	case address == addr.IF:
		return m.memory[address] | 0xE0
	default:
		return m.memory[address]
	}
}

// Write resolves a 16-bit address and stores value in its backing
// array, applying the same region-specific rules as Read plus the
// side effects of writing the DMA, DIV and serial registers.
func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM:
		m.mbc.Write(address, value)
	case regionVRAM:
		if m.StrictTiming && m.ppuMode() == 3 {
			return
		}
		m.memory[address] = value
	case regionExtRAM:
		m.mbc.Write(address, value)
	case regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address > 0xFE9F {
			return // prohibited area drops writes
		}
		if m.StrictTiming && (m.DMA.Active() || m.ppuMode() == 2 || m.ppuMode() == 3) {
			return
		}
		m.memory[address] = value
	case regionIO:
		m.writeIO(address, value)
	default:
		panic(fmt.Sprintf("unmapped write at 0x%04X", address))
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.Serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.Timer.Write(address, value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.memory[address] = value
	case address == addr.IF:
		m.memory[address] = value | 0xE0
	case address == addr.DMA:
		m.memory[address] = value
		m.DMA.Start(value)
	default:
		m.memory[address] = value
	}
}

// WriteOAM implements dma.Writer, letting the DMA engine drop bytes
// into OAM directly, bypassing the arbitration Write would otherwise
// apply against the very transfer doing the writing.
func (m *MMU) WriteOAM(offset uint8, value byte) {
	m.memory[0xFE00+uint16(offset)] = value
}

// Reset reinitializes RAM-backed state, used between test-ROM runs.
func (m *MMU) Reset() {
	for i := range m.memory {
		m.memory[i] = 0
	}
	m.Joypad = NewJoypad()
	m.Timer = NewTimer()
	m.Timer.RequestInterrupt = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.Timer.Seed(postBootDIV)
	m.DMA = dma.NewEngine()
	m.Serial.Reset()
	slog.Debug("mmu reset")
}
