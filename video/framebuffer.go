// Package video implements the PPU (C8): the background/window/sprite
// rendering pipeline and the mode state machine (OAM scan, drawing,
// HBlank, VBlank) that drives LY and the STAT/VBlank interrupts.
package video

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Color is one of the four shades the DMG LCD can display.
type Color uint32

const (
	WhiteColor     Color = 0xFFFFFFFF
	LightGreyColor Color = 0x989898FF
	DarkGreyColor  Color = 0x4C4C4CFF
	BlackColor     Color = 0x000000FF
)

// ByteToColor maps a 2-bit palette index to its display color.
func ByteToColor(value byte) Color {
	switch value & 0x03 {
	case 0:
		return BlackColor
	case 1:
		return DarkGreyColor
	case 2:
		return LightGreyColor
	default:
		return WhiteColor
	}
}

// FrameBuffer holds one rendered frame as packed RGBA8888 pixels.
type FrameBuffer struct {
	buffer [FramebufferSize]uint32
}

// NewFrameBuffer returns a black frame.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y int, color Color) {
	fb.buffer[y*FramebufferWidth+x] = uint32(color)
}

// ToSlice exposes the raw pixel buffer for a host to blit.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer[:]
}

// ToGrayscale reduces the buffer to one palette index (0-3) per pixel,
// the format the Blargg/doctor comparison harnesses expect.
func (fb *FrameBuffer) ToGrayscale() []byte {
	out := make([]byte, len(fb.buffer))
	for i, pixel := range fb.buffer {
		switch Color(pixel) {
		case BlackColor:
			out[i] = 0
		case DarkGreyColor:
			out[i] = 1
		case LightGreyColor:
			out[i] = 2
		default:
			out[i] = 3
		}
	}
	return out
}
