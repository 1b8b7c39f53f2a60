// Package addr holds the fixed memory-mapped addresses and interrupt
// bit layout of the LR35902 address space. Keeping them as named
// constants in one place avoids magic numbers scattered across cpu,
// memory, dma and video.
package addr

// Joypad
const (
	P1 uint16 = 0xFF00
)

// Serial I/O.
const (
	// SB holds the byte shifted in/out during a serial transfer.
	SB uint16 = 0xFF01
	// SC is the serial transfer control register. Bit 7 starts a
	// transfer, bit 0 selects the clock source. Writing 0x81 (start +
	// internal clock) is the hook test ROMs use to report progress.
	SC uint16 = 0xFF02
)

// Timer.
const (
	// DIV is the divider register; any write resets it to 0.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter; raises the timer interrupt on overflow.
	TIMA uint16 = 0xFF05
	// TMA is the value TIMA is reloaded with after overflow.
	TMA uint16 = 0xFF06
	// TAC selects the TIMA input frequency and enables the timer.
	TAC uint16 = 0xFF07
)

// Interrupts.
const (
	IF uint16 = 0xFF0F
	IE uint16 = 0xFFFF
)

// Audio register range. The core does not synthesize sound but still
// needs to decode reads/writes in this range without crashing.
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F
)

// LCD/PPU registers.
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	LY   uint16 = 0xFF44
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B
)

// OAM.
const (
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
)

// Tile data and tile map base addresses.
const (
	// TileData0 is the unsigned tile data base (tiles 0-255).
	TileData0 uint16 = 0x8000
	// TileData2 is the signed tile data base (tiles -128..127, with
	// tile 0 at 0x9000).
	TileData2 uint16 = 0x9000

	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
)

// Cartridge header fields, offsets relative to the start of ROM.
const (
	HeaderTitleStart    uint16 = 0x134
	HeaderTitleLength          = 11
	HeaderCGBFlag       uint16 = 0x143
	HeaderCartType      uint16 = 0x147
	HeaderROMSize       uint16 = 0x148
	HeaderRAMSize       uint16 = 0x149
	HeaderChecksum      uint16 = 0x14D
	HeaderChecksumStart uint16 = 0x134
	HeaderChecksumEnd   uint16 = 0x14C
)

// Interrupt identifies one of the five maskable interrupt sources, in
// IE/IF bit order (also priority order: lower bit wins).
type Interrupt uint8

const (
	VBlankInterrupt  Interrupt = 1 << 0
	LCDSTATInterrupt Interrupt = 1 << 1
	TimerInterrupt   Interrupt = 1 << 2
	SerialInterrupt  Interrupt = 1 << 3
	JoypadInterrupt  Interrupt = 1 << 4
)

// InterruptVectors maps bit position (0..4) to the ISR entry point.
var InterruptVectors = [5]uint16{
	0x40, // VBlank
	0x48, // LCD STAT
	0x50, // Timer
	0x58, // Serial
	0x60, // Joypad
}
