package cpu

// Opcode is one decoded instruction: executing it advances the CPU
// state and returns the T-cycles it consumed.
type Opcode func(c *CPU) int

var opcodeTable [256]Opcode
var cbTable [256]Opcode

func init() {
	buildLoadFamily()
	buildALUFamily()
	buildIncDecFamily()
	buildImmediateLoadFamily()
	buildWordFamily()
	buildStackFamily()
	buildRSTFamily()
	buildNamedOpcodes()
	buildCBTable()
}

// buildLoadFamily fills the 0x40-0x7F block: LD r,r' for every (dst,
// src) pair, except 0x76 which is HALT.
func buildLoadFamily() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			opcodeTable[opcode] = func(c *CPU) int {
				c.setR8(d, c.getR8(s))
				if d == 6 || s == 6 {
					return 8
				}
				return 4
			}
		}
	}
}

// buildALUFamily fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func buildALUFamily() {
	ops := []func(c *CPU, operand uint8){
		func(c *CPU, v uint8) { c.r.setA(c.add8(c.r.a(), v, false)) },
		func(c *CPU, v uint8) { c.r.setA(c.add8(c.r.a(), v, c.r.isSet(flagC))) },
		func(c *CPU, v uint8) { c.r.setA(c.sub8(c.r.a(), v, false)) },
		func(c *CPU, v uint8) { c.r.setA(c.sub8(c.r.a(), v, c.r.isSet(flagC))) },
		func(c *CPU, v uint8) { c.r.setA(c.and8(c.r.a(), v)) },
		func(c *CPU, v uint8) { c.r.setA(c.xor8(c.r.a(), v)) },
		func(c *CPU, v uint8) { c.r.setA(c.or8(c.r.a(), v)) },
		func(c *CPU, v uint8) { c.cp8(c.r.a(), v) },
	}
	for op := uint8(0); op < 8; op++ {
		for r := uint8(0); r < 8; r++ {
			opcode := 0x80 + op*8 + r
			fn, reg := ops[op], r
			opcodeTable[opcode] = func(c *CPU) int {
				fn(c, c.getR8(reg))
				if reg == 6 {
					return 8
				}
				return 4
			}
		}
	}
}

// buildIncDecFamily fills INC r8 (0x04+8r), DEC r8 (0x05+8r) and
// LD r8,d8 (0x06+8r) for r=0..7, including (HL) at r=6.
func buildIncDecFamily() {
	for r := uint8(0); r < 8; r++ {
		reg := r

		opcodeTable[0x04+reg*8] = func(c *CPU) int {
			c.setR8(reg, c.inc8(c.getR8(reg)))
			if reg == 6 {
				return 12
			}
			return 4
		}
		opcodeTable[0x05+reg*8] = func(c *CPU) int {
			c.setR8(reg, c.dec8(c.getR8(reg)))
			if reg == 6 {
				return 12
			}
			return 4
		}
	}
}

func buildImmediateLoadFamily() {
	for r := uint8(0); r < 8; r++ {
		reg := r
		opcodeTable[0x06+reg*8] = func(c *CPU) int {
			value := c.fetch8()
			c.setR8(reg, value)
			if reg == 6 {
				return 12
			}
			return 8
		}
	}
}

// buildWordFamily fills the rr-indexed 16-bit group: LD rr,d16 (0x01),
// ADD HL,rr (0x09), INC rr (0x03), DEC rr (0x0B), each offset by
// 0x10*rr for rr=0..3 (BC,DE,HL,SP).
func buildWordFamily() {
	for rr := uint8(0); rr < 4; rr++ {
		pair := rr
		base := pair * 0x10

		opcodeTable[0x01+base] = func(c *CPU) int {
			c.setR16(pair, c.fetch16())
			return 12
		}
		opcodeTable[0x03+base] = func(c *CPU) int {
			c.setR16(pair, c.getR16(pair)+1)
			return 8
		}
		opcodeTable[0x09+base] = func(c *CPU) int {
			hl, operand := c.r.hl, c.getR16(pair)
			result := uint32(hl) + uint32(operand)
			c.r.resetFlag(flagN)
			c.r.setFlagTo(flagH, (hl&0x0FFF)+(operand&0x0FFF) > 0x0FFF)
			c.r.setFlagTo(flagC, result > 0xFFFF)
			c.r.hl = uint16(result)
			return 8
		}
		opcodeTable[0x0B+base] = func(c *CPU) int {
			c.setR16(pair, c.getR16(pair)-1)
			return 8
		}
	}
}

// buildStackFamily fills PUSH qq (0xC5+0x10*qq) and POP qq
// (0xC1+0x10*qq) for qq=0..3 (BC,DE,HL,AF).
func buildStackFamily() {
	for qq := uint8(0); qq < 4; qq++ {
		pair := qq
		base := pair * 0x10

		opcodeTable[0xC5+base] = func(c *CPU) int {
			c.pushStack(c.getR16Stack(pair))
			return 16
		}
		opcodeTable[0xC1+base] = func(c *CPU) int {
			c.setR16Stack(pair, c.popStack())
			return 12
		}
	}
}

func buildRSTFamily() {
	for n := uint8(0); n < 8; n++ {
		vector := uint16(n) * 8
		opcodeTable[0xC7+n*8] = func(c *CPU) int {
			c.pushStack(c.r.pc)
			c.r.pc = vector
			return 16
		}
	}
}

func buildNamedOpcodes() {
	named := map[uint8]Opcode{
		0x00: opcode0x00,
		0x02: opcode0x02,
		0x07: opcode0x07,
		0x08: opcode0x08,
		0x0A: opcode0x0A,
		0x0F: opcode0x0F,
		0x10: opcode0x10,
		0x12: opcode0x12,
		0x17: opcode0x17,
		0x18: opcode0x18,
		0x1A: opcode0x1A,
		0x1F: opcode0x1F,
		0x22: opcode0x22,
		0x27: opcode0x27,
		0x2A: opcode0x2A,
		0x2F: opcode0x2F,
		0x32: opcode0x32,
		0x37: opcode0x37,
		0x3A: opcode0x3A,
		0x3F: opcode0x3F,
		0x76: opcode0x76,
		0xC3: opcode0xC3,
		0xC6: opcode0xC6,
		0xC9: opcode0xC9,
		0xCB: func(c *CPU) int { return c.opcodeCB() },
		0xCD: opcode0xCD,
		0xCE: opcode0xCE,
		0xD6: opcode0xD6,
		0xD9: opcode0xD9,
		0xDE: opcode0xDE,
		0xE0: opcode0xE0,
		0xE2: opcode0xE2,
		0xE6: opcode0xE6,
		0xE8: opcode0xE8,
		0xE9: opcode0xE9,
		0xEA: opcode0xEA,
		0xEE: opcode0xEE,
		0xF0: opcode0xF0,
		0xF2: opcode0xF2,
		0xF3: opcode0xF3,
		0xF6: opcode0xF6,
		0xF8: opcode0xF8,
		0xF9: opcode0xF9,
		0xFA: opcode0xFA,
		0xFB: opcode0xFB,
		0xFE: opcode0xFE,
	}
	for opcode, fn := range named {
		opcodeTable[opcode] = fn
	}

	// JR/JP/CALL/RET cc, indexed 0=NZ 1=Z 2=NC 3=C, each spaced 0x08
	// apart starting from its family's base opcode.
	for cc := uint8(0); cc < 4; cc++ {
		opcodeTable[0x20+cc*8] = jrConditional(cc)
		opcodeTable[0xC2+cc*8] = jpConditional(cc)
		opcodeTable[0xC4+cc*8] = callConditional(cc)
		opcodeTable[0xC0+cc*8] = retConditional(cc)
	}
	// Illegal opcodes (0xD3,0xDB,0xDD,0xE3,0xE4,0xEB,0xEC,0xED,0xF4,0xFC,0xFD)
	// are left nil; Step reports ErrIllegalOpcode for them.
}

// buildCBTable fills every CB-prefixed opcode. The whole 256-entry
// space is regular: the rotate/shift family occupies 0x00-0x3F (8
// operations x 8 registers), then BIT/RES/SET each take a 0x40 block
// indexed by (bit<<3 | register).
func buildCBTable() {
	shifts := []func(c *CPU, v uint8) uint8{
		(*CPU).rlc,
		(*CPU).rrc,
		(*CPU).rl,
		(*CPU).rr,
		(*CPU).sla,
		(*CPU).sra,
		(*CPU).swap,
		(*CPU).srl,
	}
	for op := uint8(0); op < 8; op++ {
		for r := uint8(0); r < 8; r++ {
			opcode := op*8 + r
			fn, reg := shifts[op], r
			cbTable[opcode] = func(c *CPU) int {
				c.setR8(reg, fn(c, c.getR8(reg)))
				if reg == 6 {
					return 16
				}
				return 8
			}
		}
	}

	for bit := uint8(0); bit < 8; bit++ {
		for r := uint8(0); r < 8; r++ {
			index, reg := bit, r

			cbTable[0x40+index*8+reg] = func(c *CPU) int {
				c.bit(index, c.getR8(reg))
				if reg == 6 {
					return 12
				}
				return 8
			}
			cbTable[0x80+index*8+reg] = func(c *CPU) int {
				c.setR8(reg, res(index, c.getR8(reg)))
				if reg == 6 {
					return 16
				}
				return 8
			}
			cbTable[0xC0+index*8+reg] = func(c *CPU) int {
				c.setR8(reg, set(index, c.getR8(reg)))
				if reg == 6 {
					return 16
				}
				return 8
			}
		}
	}
}
