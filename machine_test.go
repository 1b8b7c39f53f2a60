package dmgcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const codeBase = 0xC000

func TestNewWiresCPUMMUAndPPU(t *testing.T) {
	m := New()
	require.NotNil(t, m.CPU)
	require.NotNil(t, m.MMU)
	require.NotNil(t, m.PPU)

	assert.Equal(t, uint16(0x0100), m.CPU.PC())
	assert.Equal(t, uint16(0xFFFE), m.CPU.SP())
}

func TestStepExecutesOneInstructionAndTicksMMUAndPPU(t *testing.T) {
	m := New()
	m.CPU.SetPC(codeBase)
	m.MMU.Write(codeBase, 0x00) // NOP

	cycles, err := m.Step()

	require.NoError(t, err)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(codeBase+1), m.CPU.PC())
}

func TestStepPropagatesIllegalOpcodeError(t *testing.T) {
	m := New()
	m.CPU.SetPC(codeBase)
	m.MMU.Write(codeBase, 0xD3) // undefined opcode

	_, err := m.Step()

	assert.Error(t, err)
}

func TestStepFrameConsumesAFullFrameWorthOfCycles(t *testing.T) {
	m := New()
	m.CPU.SetPC(codeBase)
	for i := 0; i < 4096; i++ {
		m.MMU.Write(uint16(codeBase+i), 0x00) // NOP sled
	}

	before := m.CPU.Cycles()
	err := m.StepFrame()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, m.CPU.Cycles()-before, uint64(70224))
}

func TestSetSerialSinkReplacesMMUSink(t *testing.T) {
	m := New()
	sink := &fakeSerialSink{}

	m.SetSerialSink(sink)

	m.MMU.Write(0xFF01, 0x41)
	assert.Equal(t, byte(0x41), sink.lastWrite)
}

type fakeSerialSink struct {
	lastWrite byte
}

func (f *fakeSerialSink) Write(address uint16, value byte) { f.lastWrite = value }
func (f *fakeSerialSink) Read(address uint16) byte         { return 0xFF }
func (f *fakeSerialSink) Tick(cycles int)                  {}
func (f *fakeSerialSink) Reset()                           {}

func TestFrameBufferReturnsPPUFrameBuffer(t *testing.T) {
	m := New()
	assert.Same(t, m.PPU.FrameBuffer(), m.FrameBuffer())
}
