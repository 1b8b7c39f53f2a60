package memory

import (
	"strings"
	"unicode"

	"github.com/nialljb/dmgcore/addr"
)

// Cartridge holds the raw ROM bytes and the parsed header fields a
// host might want to display (title, type, sizes) without needing to
// re-parse the header itself.
type Cartridge struct {
	data           []byte
	Title          string
	CartridgeType  uint8
	ROMSizeCode    uint8
	RAMSizeCode    uint8
	HeaderChecksum uint8
}

// NewCartridge returns an empty, all-zero 32 KiB cartridge, useful for
// constructing an MMU with nothing plugged in.
func NewCartridge() *Cartridge {
	return &Cartridge{data: make([]byte, 0x8000)}
}

// NewCartridgeWithData parses a ROM image. Images shorter than the
// header's end are padded with 0xFF before parsing, matching how real
// hardware reads unconnected cartridge pins.
func NewCartridgeWithData(data []byte) *Cartridge {
	buf := data
	if len(buf) <= int(addr.HeaderChecksum) {
		padded := make([]byte, addr.HeaderChecksum+1)
		copy(padded, buf)
		for i := len(buf); i < len(padded); i++ {
			padded[i] = 0xFF
		}
		buf = padded
	}

	title := cleanTitle(buf[addr.HeaderTitleStart : addr.HeaderTitleStart+addr.HeaderTitleLength])

	cart := &Cartridge{
		data:           make([]byte, len(data)),
		Title:          title,
		CartridgeType:  buf[addr.HeaderCartType],
		ROMSizeCode:    buf[addr.HeaderROMSize],
		RAMSizeCode:    buf[addr.HeaderRAMSize],
		HeaderChecksum: buf[addr.HeaderChecksum],
	}
	copy(cart.data, data)

	return cart
}

// cleanTitle replaces NUL padding with spaces and non-printable bytes
// with '?', then trims, so garbage/open-bus header bytes never surface
// as mojibake to a host displaying the cartridge name.
func cleanTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))
	for _, b := range titleBytes {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r) || r > 0x7E:
			r = '?'
		}
		runes = append(runes, r)
	}
	return strings.TrimSpace(string(runes))
}

// Data returns the raw ROM bytes backing the cartridge.
func (c *Cartridge) Data() []byte {
	return c.data
}

// ComputeHeaderChecksum recomputes the header checksum over
// 0x134..=0x14C as real hardware's boot ROM does: sum of -data[i]-1.
func ComputeHeaderChecksum(data []byte) uint8 {
	var checksum uint8
	for i := addr.HeaderChecksumStart; i <= addr.HeaderChecksumEnd; i++ {
		if int(i) >= len(data) {
			break
		}
		checksum = checksum - data[i] - 1
	}
	return checksum
}
