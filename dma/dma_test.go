package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemory struct {
	data [0x10000]byte
}

func (m *fakeMemory) Read(address uint16) byte { return m.data[address] }

type fakeOAM struct {
	data [160]byte
}

func (o *fakeOAM) WriteOAM(offset uint8, value byte) { o.data[offset] = value }

func TestStartHasFourCycleStartupDelay(t *testing.T) {
	mem := &fakeMemory{}
	for i := 0; i < 160; i++ {
		mem.data[0xC000+i] = byte(i + 1)
	}
	oam := &fakeOAM{}

	e := NewEngine()
	e.Start(0xC0)
	require.True(t, e.Active())

	e.Tick(4, mem, oam)
	assert.Equal(t, byte(0), oam.data[0], "no byte should land before the startup delay elapses")

	e.Tick(4, mem, oam)
	assert.Equal(t, byte(1), oam.data[0])
}

func TestTransferCopies160Bytes(t *testing.T) {
	mem := &fakeMemory{}
	for i := 0; i < 160; i++ {
		mem.data[0xC000+i] = byte(i + 1)
	}
	oam := &fakeOAM{}

	e := NewEngine()
	e.Start(0xC0)
	e.Tick(4+160*4, mem, oam)

	assert.False(t, e.Active())
	for i := 0; i < 160; i++ {
		assert.Equal(t, byte(i+1), oam.data[i])
	}
}

func TestRestartFromNewSource(t *testing.T) {
	mem := &fakeMemory{}
	mem.data[0xC000] = 0xAA
	mem.data[0xD000] = 0xBB
	oam := &fakeOAM{}

	e := NewEngine()
	e.Start(0xC0)
	e.Tick(8, mem, oam)
	assert.Equal(t, byte(0xAA), oam.data[0])

	e.Start(0xD0)
	require.True(t, e.Active())
	e.Tick(8, mem, oam)
	assert.Equal(t, byte(0xBB), oam.data[0])
}
