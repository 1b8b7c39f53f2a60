package video

import "github.com/nialljb/dmgcore/bit"

// TileRow is one 8-pixel row of a tile, stored as two bit-planes: the
// low byte gives bit 0 of each pixel's 2-bit color index, the high
// byte gives bit 1. Bit 7 of each byte is the leftmost pixel.
type TileRow struct {
	Low  byte
	High byte
}

// GetPixel extracts a pixel color (0-3); pixelX 0 is leftmost.
func (t TileRow) GetPixel(pixelX int) int {
	bitIndex := uint8(7 - pixelX)
	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// GetPixelFlipped is GetPixel with the row read right-to-left, for
// sprites with the horizontal-flip attribute set.
func (t TileRow) GetPixelFlipped(pixelX int) int {
	bitIndex := uint8(pixelX)
	pixel := 0
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// Tile is a complete 8x8 pattern: 8 rows of 2 bytes each, 16 bytes
// total in VRAM.
type Tile struct {
	Index int
	Rows  [8]TileRow
}

func (t *Tile) GetPixel(x, y int) int {
	if y < 0 || y >= 8 || x < 0 || x >= 8 {
		return 0
	}
	return t.Rows[y].GetPixel(x)
}

// MemoryReader is the minimal bus access a tile fetch needs.
type MemoryReader interface {
	Read(address uint16) byte
}

// FetchTile reads a complete 16-byte tile starting at baseAddr.
func FetchTile(memory MemoryReader, baseAddr uint16) Tile {
	var tile Tile
	for row := 0; row < 8; row++ {
		a := baseAddr + uint16(row*2)
		tile.Rows[row] = TileRow{
			Low:  memory.Read(a),
			High: memory.Read(a + 1),
		}
	}
	return tile
}
