package memory

import "github.com/nialljb/dmgcore/bit"

// JoypadKey identifies one of the eight physical buttons. Mapping a
// host's keyboard/gamepad events onto these values is the host's job;
// the core only models the register-level behavior of P1.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad tracks button state and renders it into the P1 register
// according to the selection bits written by the game.
//
// Hardware quirk: 0 means pressed, 1 means released, and P1 only ever
// exposes one of the two 4-bit groups (or their AND) at a time,
// selected by bits 4-5.
type Joypad struct {
	buttons uint8 // A/B/Select/Start, low 4 bits
	dpad    uint8 // Right/Left/Up/Down, low 4 bits
	p1      uint8 // live register value, bits 4-5 are the selection
}

// NewJoypad returns a joypad with all buttons released.
func NewJoypad() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F}
}

// Read returns the current P1 register value.
func (j *Joypad) Read() uint8 {
	result := uint8(0b1100_0000) // bits 6-7 always read high
	result |= j.p1 & 0b0011_0000

	selectDpad := !bit.IsSet(4, j.p1)
	selectButtons := !bit.IsSet(5, j.p1)

	switch {
	case selectButtons && !selectDpad:
		result |= j.buttons & 0x0F
	case selectDpad && !selectButtons:
		result |= j.dpad & 0x0F
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the selection bits (4-5); the button bits are
// read-only from the CPU's point of view.
func (j *Joypad) Write(value uint8) {
	j.p1 = value & 0b0011_0000
}

// Press clears the bit for key and reports whether this was a
// high-to-low transition (the condition that raises the joypad
// interrupt).
func (j *Joypad) Press(key JoypadKey) (transitioned bool) {
	before := j.groupFor(key)
	j.setGroup(key, bit.Reset(bitFor(key), before))
	return before != j.groupFor(key)
}

// Release sets the bit for key.
func (j *Joypad) Release(key JoypadKey) {
	before := j.groupFor(key)
	j.setGroup(key, bit.Set(bitFor(key), before))
}

func bitFor(key JoypadKey) uint8 {
	switch key {
	case JoypadRight, JoypadA:
		return 0
	case JoypadLeft, JoypadB:
		return 1
	case JoypadUp, JoypadSelect:
		return 2
	case JoypadDown, JoypadStart:
		return 3
	}
	return 0
}

func (j *Joypad) groupFor(key JoypadKey) uint8 {
	if key <= JoypadDown {
		return j.dpad
	}
	return j.buttons
}

func (j *Joypad) setGroup(key JoypadKey, value uint8) {
	if key <= JoypadDown {
		j.dpad = value
	} else {
		j.buttons = value
	}
}
