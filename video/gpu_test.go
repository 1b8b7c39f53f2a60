package video

import (
	"testing"

	"github.com/nialljb/dmgcore/addr"
	"github.com/nialljb/dmgcore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPPU() (*PPU, *memory.MMU) {
	mmu := memory.New()
	mmu.Write(addr.LCDC, 0x91) // LCD on, BG on, tile data 0x8000
	mmu.Write(addr.BGP, 0xE4)  // identity palette: 0->0,1->1,2->2,3->3
	return NewPPU(mmu), mmu
}

func writeTile(mmu *memory.MMU, base uint16, rows [8][2]byte) {
	for i, row := range rows {
		mmu.Write(base+uint16(i*2), row[0])
		mmu.Write(base+uint16(i*2)+1, row[1])
	}
}

func TestDrawBackgroundAllWhiteTile(t *testing.T) {
	ppu, mmu := newTestPPU()
	writeTile(mmu, addr.TileData0, [8][2]byte{
		{0xFF, 0xFF}, {0xFF, 0xFF}, {0xFF, 0xFF}, {0xFF, 0xFF},
		{0xFF, 0xFF}, {0xFF, 0xFF}, {0xFF, 0xFF}, {0xFF, 0xFF},
	})
	mmu.Write(addr.TileMap0, 0x00)

	ppu.line = 0
	ppu.drawBackground()

	assert.Equal(t, uint32(WhiteColor), ppu.framebuffer.GetPixel(0, 0))
	assert.Equal(t, uint32(WhiteColor), ppu.framebuffer.GetPixel(7, 0))
}

func TestDrawBackgroundDisabledShowsPaletteColorZero(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LCDC, 0x90) // LCD on, BG off
	mmu.Write(addr.BGP, 0xE4)

	ppu.line = 0
	ppu.drawBackground()

	assert.Equal(t, uint32(BlackColor), ppu.framebuffer.GetPixel(0, 0))
}

func TestScanlineModeTimingAdvancesLY(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LY, 0)

	ppu.mode = OAMScanMode
	ppu.line = 0
	ppu.cycles = 0

	ppu.Tick(oamScanCycles)
	assert.Equal(t, DrawingMode, ppu.Mode())

	ppu.Tick(drawingCycles)
	assert.Equal(t, HBlankMode, ppu.Mode())

	ppu.Tick(hblankCycles)
	assert.Equal(t, OAMScanMode, ppu.Mode())
	assert.Equal(t, 1, ppu.line)
}

func TestVBlankInterruptFiresAtLine144(t *testing.T) {
	ppu, mmu := newTestPPU()
	ppu.mode = HBlankMode
	ppu.line = 143
	ppu.cycles = 0

	ppu.Tick(hblankCycles)

	assert.Equal(t, VBlankMode, ppu.Mode())
	assert.Equal(t, 144, ppu.line)
	require.NotZero(t, mmu.Read(addr.IF)&uint8(addr.VBlankInterrupt))
}

func TestLYCComparisonSetsStatAndRequestsInterrupt(t *testing.T) {
	ppu, mmu := newTestPPU()
	mmu.Write(addr.LYC, 5)
	mmu.Write(addr.STAT, 0x40) // enable LYC=LY interrupt

	ppu.setLY(5)

	stat := mmu.Read(addr.STAT)
	assert.True(t, stat&0x04 != 0)
	assert.NotZero(t, mmu.Read(addr.IF)&uint8(addr.LCDSTATInterrupt))
}
