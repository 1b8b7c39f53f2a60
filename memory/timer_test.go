package memory

import (
	"testing"

	"github.com/nialljb/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestDivIncrementsWithSystemCounter(t *testing.T) {
	tm := NewTimer()
	tm.Tick(256)
	assert.Equal(t, byte(1), tm.Read(addr.DIV))
}

func TestWritingDivResetsWholeCounter(t *testing.T) {
	tm := NewTimer()
	tm.Tick(300)
	tm.Write(addr.DIV, 0x42) // any value writes as a reset to zero
	assert.Equal(t, byte(0), tm.Read(addr.DIV))
}

func TestTimaIncrementsOnFallingEdgeOfSelectedBit(t *testing.T) {
	tm := NewTimer()
	tm.Write(addr.TAC, 0x05) // enabled, frequency /16 (bit 3)
	tm.Tick(16)
	assert.Equal(t, byte(1), tm.Read(addr.TIMA))
}

func TestTimaOverflowReloadsFromTMAAfterDelayAndInterrupts(t *testing.T) {
	tm := NewTimer()
	interrupted := false
	tm.RequestInterrupt = func() { interrupted = true }

	tm.Write(addr.TMA, 0x7F)
	tm.Write(addr.TAC, 0x05) // /16
	tm.Write(addr.TIMA, 0xFF)

	tm.Tick(16) // overflow triggers here, reload is delayed 4 cycles
	assert.Equal(t, byte(0x00), tm.Read(addr.TIMA))
	assert.False(t, interrupted)

	tm.Tick(4) // delay elapses; reload itself lands on the next Tick call
	assert.False(t, interrupted)

	tm.Tick(1)
	assert.Equal(t, byte(0x7F), tm.Read(addr.TIMA))
	assert.True(t, interrupted)
}

func TestWritingTimaDuringReloadDelayCancelsReload(t *testing.T) {
	tm := NewTimer()
	interrupted := false
	tm.RequestInterrupt = func() { interrupted = true }

	tm.Write(addr.TMA, 0x7F)
	tm.Write(addr.TAC, 0x05)
	tm.Write(addr.TIMA, 0xFF)
	tm.Tick(16) // overflow pending

	tm.Write(addr.TIMA, 0x10) // write during the delay window cancels the reload

	tm.Tick(4)
	assert.Equal(t, byte(0x10), tm.Read(addr.TIMA))
	assert.False(t, interrupted)
}

func TestDisabledTimerDoesNotIncrementTima(t *testing.T) {
	tm := NewTimer()
	tm.Write(addr.TAC, 0x01) // frequency bit set but enable bit (2) clear
	tm.Tick(64)
	assert.Equal(t, byte(0), tm.Read(addr.TIMA))
}
