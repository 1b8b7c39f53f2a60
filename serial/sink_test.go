package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateTransferCompletesOnWrite(t *testing.T) {
	irqFired := false
	sink := NewLogSink(func() { irqFired = true })

	sink.Write(sb, 'A')
	sink.Write(sc, 0x81)

	assert.True(t, irqFired)
	assert.Equal(t, byte(0x00), sink.Read(sc), "SC is fully cleared once the transfer completes")
	assert.Equal(t, []byte{'A'}, sink.Bytes())
}

func TestTransferRequiresStartAndClockBits(t *testing.T) {
	irqFired := false
	sink := NewLogSink(func() { irqFired = true })

	sink.Write(sb, 'A')
	sink.Write(sc, 0x80) // start bit only, no internal clock selected
	assert.False(t, irqFired)
	assert.Empty(t, sink.Bytes())
}

func TestFixedTimingDelaysCompletion(t *testing.T) {
	irqFired := false
	sink := NewLogSink(func() { irqFired = true }, WithFixedTiming())

	sink.Write(sb, 'B')
	sink.Write(sc, 0x81)
	require.False(t, irqFired, "fixed timing must not complete instantly")

	sink.Tick(4095)
	assert.False(t, irqFired)

	sink.Tick(1)
	assert.True(t, irqFired)
	assert.Equal(t, []byte{'B'}, sink.Bytes())
}

func TestDrainClearsAccumulatedStream(t *testing.T) {
	sink := NewLogSink(nil)
	sink.Write(sb, 'X')
	sink.Write(sc, 0x81)
	sink.Write(sb, 'Y')
	sink.Write(sc, 0x81)

	drained := sink.Drain()
	assert.Equal(t, []byte{'X', 'Y'}, drained)
	assert.Empty(t, sink.Bytes())
}

func TestResetClearsRegisters(t *testing.T) {
	sink := NewLogSink(nil)
	sink.Write(sb, 'Z')
	sink.Reset()

	assert.Equal(t, byte(0), sink.Read(sb))
	assert.Equal(t, byte(0), sink.Read(sc))
}
