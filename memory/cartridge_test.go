package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildHeaderROM(title string) []byte {
	data := make([]byte, 0x150)
	for i := range data {
		data[i] = 0xFF
	}
	for i := 0x134; i < 0x134+11; i++ {
		data[i] = 0x00 // title field is zero-padded, not 0xFF-padded
	}
	copy(data[0x134:0x134+11], title)
	data[0x147] = 0x00 // ROM only
	data[0x148] = 0x00 // 32 KiB
	data[0x149] = 0x00 // no RAM
	return data
}

func TestNewCartridgeWithDataParsesTitleAndType(t *testing.T) {
	data := buildHeaderROM("TESTGAME")
	cart := NewCartridgeWithData(data)

	assert.Equal(t, "TESTGAME", cart.Title)
	assert.Equal(t, uint8(0x00), cart.CartridgeType)
	assert.Equal(t, uint8(0x00), cart.ROMSizeCode)
}

func TestNewCartridgeWithDataPadsShortImages(t *testing.T) {
	cart := NewCartridgeWithData([]byte{0x01, 0x02})
	assert.NotNil(t, cart)
	assert.Equal(t, byte(0x01), cart.Data()[0])
	assert.Equal(t, byte(0x02), cart.Data()[1])
}

func TestComputeHeaderChecksumMatchesKnownROM(t *testing.T) {
	data := buildHeaderROM("TESTGAME")
	checksum := ComputeHeaderChecksum(data)
	data[0x14D] = checksum
	assert.Equal(t, checksum, ComputeHeaderChecksum(data))
}
