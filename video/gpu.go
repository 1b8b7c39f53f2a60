package video

import (
	"github.com/nialljb/dmgcore/addr"
	"github.com/nialljb/dmgcore/bit"
	"github.com/nialljb/dmgcore/memory"
)

// Mode is the PPU's current rendering stage; values match STAT bits 1-0.
type Mode int

const (
	HBlankMode Mode = 0
	VBlankMode Mode = 1
	OAMScanMode Mode = 2
	DrawingMode Mode = 3
)

const (
	hblankCycles       = 204
	oamScanCycles      = 80
	drawingCycles      = 172
	scanlineCycles     = oamScanCycles + drawingCycles + hblankCycles
	framesCycleBudget  = 70224
)

// PPU implements the mode state machine (OAM scan -> drawing -> HBlank,
// repeated for 144 visible lines, then ten VBlank lines) and the
// background/window/sprite rendering pipeline that runs once per
// scanline on entry to the drawing mode.
type PPU struct {
	bus           *memory.MMU
	framebuffer   *FrameBuffer
	bgPixelBuffer [FramebufferSize]byte
	spritePrio    SpritePriorityBuffer

	mode           Mode
	line           int
	cycles         int
	vblankAux      int
	vBlankLine     int
	scanlineDrawn  bool
	windowLine     int
}

// NewPPU returns a PPU reset into VBlank at line 144, matching the
// state the console boots into before the first OAM scan.
func NewPPU(bus *memory.MMU) *PPU {
	return &PPU{
		bus:         bus,
		framebuffer: NewFrameBuffer(),
		mode:        VBlankMode,
		line:        144,
	}
}

func (p *PPU) FrameBuffer() *FrameBuffer {
	return p.framebuffer
}

func (p *PPU) Mode() Mode {
	return p.mode
}

// Tick advances the PPU by cycles T-cycles, the way the timer and DMA
// engine are advanced, driving mode transitions, LY, and the
// associated STAT/VBlank interrupts.
func (p *PPU) Tick(cycles int) {
	p.cycles += cycles

	switch p.mode {
	case HBlankMode:
		if p.cycles < hblankCycles {
			break
		}
		p.cycles -= hblankCycles
		p.setMode(OAMScanMode)
		p.setLY(p.line + 1)

		if p.line == 144 {
			p.setMode(VBlankMode)
			p.vBlankLine = 0
			p.vblankAux = p.cycles
			p.windowLine = 0

			p.bus.RequestInterrupt(addr.VBlankInterrupt)
			if p.bus.ReadBit(statVblankIrq, addr.STAT) {
				p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		} else if p.bus.ReadBit(statOamIrq, addr.STAT) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case VBlankMode:
		p.vblankAux += cycles
		if p.vblankAux >= scanlineCycles {
			p.vblankAux -= scanlineCycles
			p.vBlankLine++
			if p.vBlankLine <= 9 {
				p.setLY(p.line + 1)
			}
		}

		if p.cycles >= 4104 && p.vblankAux >= 4 && p.line == 153 {
			p.setLY(0)
		}

		if p.cycles >= 4560 {
			p.cycles -= 4560
			p.setMode(OAMScanMode)
			if p.bus.ReadBit(statOamIrq, addr.STAT) {
				p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	case OAMScanMode:
		if p.cycles >= oamScanCycles {
			p.cycles -= oamScanCycles
			p.setMode(DrawingMode)
			p.scanlineDrawn = false
		}
	case DrawingMode:
		if !p.scanlineDrawn {
			if p.readLCDCBit(lcdDisplayEnable) {
				p.drawScanline()
			}
			p.scanlineDrawn = true
		}

		if p.cycles >= drawingCycles {
			p.cycles -= drawingCycles
			p.setMode(HBlankMode)
			if p.bus.ReadBit(statHblankIrq, addr.STAT) {
				p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	}

	if p.cycles >= framesCycleBudget {
		p.cycles -= framesCycleBudget
	}
}

func (p *PPU) drawScanline() {
	if !p.readLCDCBit(lcdDisplayEnable) {
		lineWidth := p.line * FramebufferWidth
		for i := 0; i < FramebufferWidth; i++ {
			p.framebuffer.buffer[lineWidth+i] = uint32(WhiteColor)
		}
		return
	}

	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}

func (p *PPU) drawBackground() {
	lineWidth := p.line * FramebufferWidth

	if !p.readLCDCBit(bgDisplay) {
		palette := p.bus.Read(addr.BGP)
		color := uint32(ByteToColor(palette & 0x03))
		for i := range FramebufferWidth {
			p.framebuffer.buffer[lineWidth+i] = color
			p.bgPixelBuffer[lineWidth+i] = 0
		}
		return
	}

	useSignedTiles := !p.readLCDCBit(bgWindowTileDataSelect)
	useTileMapZero := !p.readLCDCBit(bgTileMapSelect)

	tilesAddr := addr.TileData0
	if useSignedTiles {
		tilesAddr = addr.TileData2
	}
	tileMapAddr := addr.TileMap1
	if useTileMapZero {
		tileMapAddr = addr.TileMap0
	}

	scrollX := p.bus.Read(addr.SCX)
	scrollY := p.bus.Read(addr.SCY)
	lineScrolled := (p.line + int(scrollY)) & 0xFF
	lineScrolled32 := (lineScrolled / 8) * 32
	tilePixelY2 := (lineScrolled % 8) * 2

	for screenX := 0; screenX < FramebufferWidth; screenX++ {
		mapPixelX := (screenX + int(scrollX)) & 0xFF
		mapTileX := mapPixelX / 8
		tileXOffset := mapPixelX % 8

		tileValue := p.bus.Read(tileMapAddr + uint16(lineScrolled32+mapTileX))
		tileAddr := tileAddress(tilesAddr, tileValue, tilePixelY2, useSignedTiles)

		low := p.bus.Read(tileAddr)
		high := p.bus.Read(tileAddr + 1)
		pixelIndex := uint8(7 - tileXOffset)

		pixel := 0
		if bit.IsSet(pixelIndex, low) {
			pixel |= 1
		}
		if bit.IsSet(pixelIndex, high) {
			pixel |= 2
		}

		position := lineWidth + screenX
		palette := p.bus.Read(addr.BGP)
		color := (palette >> (pixel * 2)) & 0x03

		p.framebuffer.buffer[position] = uint32(ByteToColor(color))
		p.bgPixelBuffer[position] = color
	}
}

func (p *PPU) drawWindow() {
	if p.windowLine > 143 || !p.readLCDCBit(windowDisplayEnable) {
		return
	}

	wx := int(p.bus.Read(addr.WX)) - 7
	wy := p.bus.Read(addr.WY)

	if wx > 159 || int(wy) > p.line {
		return
	}

	useSignedTiles := !p.readLCDCBit(bgWindowTileDataSelect)
	useTileMapZero := !p.readLCDCBit(windowTileMapSelect)

	tilesAddr := addr.TileData0
	if useSignedTiles {
		tilesAddr = addr.TileData2
	}
	tileMapAddr := addr.TileMap1
	if useTileMapZero {
		tileMapAddr = addr.TileMap0
	}

	y32 := (p.windowLine / 8) * 32
	pixelY2 := (p.windowLine & 7) * 2
	lineWidth := p.line * FramebufferWidth

	endTileX := (FramebufferWidth - wx + 7) / 8
	if endTileX > 32 {
		endTileX = 32
	}

	for x := 0; x < endTileX; x++ {
		tileValue := p.bus.Read(tileMapAddr + uint16(y32+x))
		tileAddr := tileAddress(tilesAddr, tileValue, pixelY2, useSignedTiles)

		low := p.bus.Read(tileAddr)
		high := p.bus.Read(tileAddr + 1)

		for pixelX := 0; pixelX < 8; pixelX++ {
			bufferX := x*8 + pixelX + wx
			if bufferX < wx || bufferX >= FramebufferWidth {
				continue
			}

			pixel := 0
			if bit.IsSet(uint8(7-pixelX), low) {
				pixel |= 1
			}
			if bit.IsSet(uint8(7-pixelX), high) {
				pixel |= 2
			}

			position := lineWidth + bufferX
			palette := p.bus.Read(addr.BGP)
			color := (palette >> (pixel * 2)) & 0x03
			p.framebuffer.buffer[position] = uint32(ByteToColor(color))
			p.bgPixelBuffer[position] = color
		}
	}
	p.windowLine++
}

func (p *PPU) drawSprites() {
	if !p.readLCDCBit(spriteDisplayEnable) {
		return
	}

	spriteHeight := 8
	if p.readLCDCBit(spriteSize) {
		spriteHeight = 16
	}

	lineWidth := p.line * FramebufferWidth
	var scanlineSprites []int

	for sprite := 0; sprite < 40; sprite++ {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.bus.Read(oamAddr)) - 16

		if spriteY > p.line || spriteY+spriteHeight <= p.line {
			continue
		}
		scanlineSprites = append(scanlineSprites, sprite)
		if len(scanlineSprites) >= 10 {
			break
		}
	}

	p.spritePrio.Clear()
	for _, sprite := range scanlineSprites {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteX := int(p.bus.Read(oamAddr+1)) - 8
		for offset := range 8 {
			p.spritePrio.TryClaimPixel(spriteX+offset, sprite, spriteX)
		}
	}

	for _, sprite := range scanlineSprites {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.bus.Read(oamAddr)) - 16
		spriteX := int(p.bus.Read(oamAddr+1)) - 8
		spriteTile := p.bus.Read(oamAddr + 2)
		spriteFlags := p.bus.Read(oamAddr + 3)

		hasPixels := false
		for x := 0; x < 8; x++ {
			if p.spritePrio.GetPriority(spriteX+x) == sprite {
				hasPixels = true
				break
			}
		}
		if !hasPixels {
			continue
		}

		spriteMask := 0xFF
		if spriteHeight == 16 {
			spriteMask = 0xFE
		}
		spriteTile16 := (int(spriteTile) & spriteMask) * 16

		objPaletteAddr := addr.OBP0
		if bit.IsSet(4, spriteFlags) {
			objPaletteAddr = addr.OBP1
		}
		flipX := bit.IsSet(5, spriteFlags)
		flipY := bit.IsSet(6, spriteFlags)
		aboveBG := !bit.IsSet(7, spriteFlags)

		pixelY := p.line - spriteY
		if flipY {
			pixelY = spriteHeight - 1 - pixelY
		}

		pixelY2, offset := 0, 0
		if spriteHeight == 16 && pixelY >= 8 {
			pixelY2 = (pixelY - 8) * 2
			offset = 16
		} else {
			pixelY2 = pixelY * 2
		}

		tileAddr := addr.TileData0 + uint16(spriteTile16+pixelY2+offset)
		low := p.bus.Read(tileAddr)
		high := p.bus.Read(tileAddr + 1)

		for pixelX := 0; pixelX < 8; pixelX++ {
			bufferX := spriteX + pixelX
			if p.spritePrio.GetPriority(bufferX) != sprite {
				continue
			}

			pixelIdx := 7 - pixelX
			if flipX {
				pixelIdx = pixelX
			}

			pixel := 0
			if bit.IsSet(uint8(pixelIdx), low) {
				pixel |= 1
			}
			if bit.IsSet(uint8(pixelIdx), high) {
				pixel |= 2
			}
			if pixel == 0 {
				continue
			}

			position := lineWidth + bufferX
			if !aboveBG && p.bgPixelBuffer[position] != 0 {
				continue
			}

			palette := p.bus.Read(objPaletteAddr)
			color := (palette >> (pixel * 2)) & 0x03
			p.framebuffer.buffer[position] = uint32(ByteToColor(color))
		}
	}
}

func tileAddress(tilesBase uint16, tileValue byte, rowOffset2 int, signed bool) uint16 {
	if signed {
		return uint16(int(tilesBase) + int(int8(tileValue))*16 + rowOffset2)
	}
	return tilesBase + uint16(int(tileValue)*16+rowOffset2)
}

// STAT bit positions.
type statFlag = uint8

const (
	statLycIrq       statFlag = 6
	statOamIrq       statFlag = 5
	statVblankIrq    statFlag = 4
	statHblankIrq    statFlag = 3
	statLycCondition statFlag = 2
)

// LCDC bit positions.
type lcdcFlag = uint8

const (
	lcdDisplayEnable       lcdcFlag = 7
	windowTileMapSelect    lcdcFlag = 6
	windowDisplayEnable    lcdcFlag = 5
	bgWindowTileDataSelect lcdcFlag = 4
	bgTileMapSelect        lcdcFlag = 3
	spriteSize             lcdcFlag = 2
	spriteDisplayEnable    lcdcFlag = 1
	bgDisplay              lcdcFlag = 0
)

func (p *PPU) readLCDCBit(flag lcdcFlag) bool {
	return bit.IsSet(flag, p.bus.Read(addr.LCDC))
}

func (p *PPU) compareLYToLYC() {
	ly := p.bus.Read(addr.LY)
	lyc := p.bus.Read(addr.LYC)
	stat := p.bus.Read(addr.STAT)

	if ly == lyc {
		stat = bit.Set(statLycCondition, stat)
		if bit.IsSet(statLycIrq, stat) {
			p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Reset(statLycCondition, stat)
	}

	p.bus.Write(addr.STAT, stat)
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	stat := p.bus.Read(addr.STAT)
	p.bus.Write(addr.STAT, stat&0xFC|byte(mode))
}

func (p *PPU) setLY(line int) {
	p.line = line
	p.bus.Write(addr.LY, byte(p.line))
	p.compareLYToLYC()
}
