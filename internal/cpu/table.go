package cpu

type spec struct {
	opcode uint8
	name   string
	mode   AddressingMode
	bytes  uint8
	cycles uint8
	fn     execFunc
}

// initInstructions builds the static 256-entry dispatch table. Opcodes with
// no entry (true illegal/"jam" bytes, and the rarer unofficial combinations
// not exercised by nestest: ANC, ALR, ARR, SBX, SHX, SHY, TAS, LAS, AHX)
// are left nil and fault at Step via ErrIllegalOpcode.
func (c *CPU) initInstructions() {
	specs := []spec{
		{0x00, "BRK", Implied, 1, 7, opBRK},
		{0x01, "ORA", IndexedIndirect, 2, 6, opORA},
		{0x03, "SLO", IndexedIndirect, 2, 8, opSLO},
		{0x04, "NOP", ZeroPage, 2, 3, opNOP},
		{0x05, "ORA", ZeroPage, 2, 3, opORA},
		{0x06, "ASL", ZeroPage, 2, 5, opASL},
		{0x07, "SLO", ZeroPage, 2, 5, opSLO},
		{0x08, "PHP", Implied, 1, 3, opPHP},
		{0x09, "ORA", Immediate, 2, 2, opORA},
		{0x0A, "ASL", Accumulator, 1, 2, opASL},
		{0x0C, "NOP", Absolute, 3, 4, opNOP},
		{0x0D, "ORA", Absolute, 3, 4, opORA},
		{0x0E, "ASL", Absolute, 3, 6, opASL},
		{0x0F, "SLO", Absolute, 3, 6, opSLO},

		{0x10, "BPL", Relative, 2, 2, opBPL},
		{0x11, "ORA", IndirectIndexed, 2, 5, opORA},
		{0x13, "SLO", IndirectIndexed, 2, 8, opSLO},
		{0x14, "NOP", ZeroPageX, 2, 4, opNOP},
		{0x15, "ORA", ZeroPageX, 2, 4, opORA},
		{0x16, "ASL", ZeroPageX, 2, 6, opASL},
		{0x17, "SLO", ZeroPageX, 2, 6, opSLO},
		{0x18, "CLC", Implied, 1, 2, opCLC},
		{0x19, "ORA", AbsoluteY, 3, 4, opORA},
		{0x1A, "NOP", Implied, 1, 2, opNOP},
		{0x1B, "SLO", AbsoluteY, 3, 7, opSLO},
		{0x1C, "NOP", AbsoluteX, 3, 4, opNOP},
		{0x1D, "ORA", AbsoluteX, 3, 4, opORA},
		{0x1E, "ASL", AbsoluteX, 3, 7, opASL},
		{0x1F, "SLO", AbsoluteX, 3, 7, opSLO},

		{0x20, "JSR", Absolute, 3, 6, opJSR},
		{0x21, "AND", IndexedIndirect, 2, 6, opAND},
		{0x23, "RLA", IndexedIndirect, 2, 8, opRLA},
		{0x24, "BIT", ZeroPage, 2, 3, opBIT},
		{0x25, "AND", ZeroPage, 2, 3, opAND},
		{0x26, "ROL", ZeroPage, 2, 5, opROL},
		{0x27, "RLA", ZeroPage, 2, 5, opRLA},
		{0x28, "PLP", Implied, 1, 4, opPLP},
		{0x29, "AND", Immediate, 2, 2, opAND},
		{0x2A, "ROL", Accumulator, 1, 2, opROL},
		{0x2C, "BIT", Absolute, 3, 4, opBIT},
		{0x2D, "AND", Absolute, 3, 4, opAND},
		{0x2E, "ROL", Absolute, 3, 6, opROL},
		{0x2F, "RLA", Absolute, 3, 6, opRLA},

		{0x30, "BMI", Relative, 2, 2, opBMI},
		{0x31, "AND", IndirectIndexed, 2, 5, opAND},
		{0x33, "RLA", IndirectIndexed, 2, 8, opRLA},
		{0x34, "NOP", ZeroPageX, 2, 4, opNOP},
		{0x35, "AND", ZeroPageX, 2, 4, opAND},
		{0x36, "ROL", ZeroPageX, 2, 6, opROL},
		{0x37, "RLA", ZeroPageX, 2, 6, opRLA},
		{0x38, "SEC", Implied, 1, 2, opSEC},
		{0x39, "AND", AbsoluteY, 3, 4, opAND},
		{0x3A, "NOP", Implied, 1, 2, opNOP},
		{0x3B, "RLA", AbsoluteY, 3, 7, opRLA},
		{0x3C, "NOP", AbsoluteX, 3, 4, opNOP},
		{0x3D, "AND", AbsoluteX, 3, 4, opAND},
		{0x3E, "ROL", AbsoluteX, 3, 7, opROL},
		{0x3F, "RLA", AbsoluteX, 3, 7, opRLA},

		{0x40, "RTI", Implied, 1, 6, opRTI},
		{0x41, "EOR", IndexedIndirect, 2, 6, opEOR},
		{0x43, "SRE", IndexedIndirect, 2, 8, opSRE},
		{0x44, "NOP", ZeroPage, 2, 3, opNOP},
		{0x45, "EOR", ZeroPage, 2, 3, opEOR},
		{0x46, "LSR", ZeroPage, 2, 5, opLSR},
		{0x47, "SRE", ZeroPage, 2, 5, opSRE},
		{0x48, "PHA", Implied, 1, 3, opPHA},
		{0x49, "EOR", Immediate, 2, 2, opEOR},
		{0x4A, "LSR", Accumulator, 1, 2, opLSR},
		{0x4C, "JMP", Absolute, 3, 3, opJMP},
		{0x4D, "EOR", Absolute, 3, 4, opEOR},
		{0x4E, "LSR", Absolute, 3, 6, opLSR},
		{0x4F, "SRE", Absolute, 3, 6, opSRE},

		{0x50, "BVC", Relative, 2, 2, opBVC},
		{0x51, "EOR", IndirectIndexed, 2, 5, opEOR},
		{0x53, "SRE", IndirectIndexed, 2, 8, opSRE},
		{0x54, "NOP", ZeroPageX, 2, 4, opNOP},
		{0x55, "EOR", ZeroPageX, 2, 4, opEOR},
		{0x56, "LSR", ZeroPageX, 2, 6, opLSR},
		{0x57, "SRE", ZeroPageX, 2, 6, opSRE},
		{0x58, "CLI", Implied, 1, 2, opCLI},
		{0x59, "EOR", AbsoluteY, 3, 4, opEOR},
		{0x5A, "NOP", Implied, 1, 2, opNOP},
		{0x5B, "SRE", AbsoluteY, 3, 7, opSRE},
		{0x5C, "NOP", AbsoluteX, 3, 4, opNOP},
		{0x5D, "EOR", AbsoluteX, 3, 4, opEOR},
		{0x5E, "LSR", AbsoluteX, 3, 7, opLSR},
		{0x5F, "SRE", AbsoluteX, 3, 7, opSRE},

		{0x60, "RTS", Implied, 1, 6, opRTS},
		{0x61, "ADC", IndexedIndirect, 2, 6, opADC},
		{0x63, "RRA", IndexedIndirect, 2, 8, opRRA},
		{0x64, "NOP", ZeroPage, 2, 3, opNOP},
		{0x65, "ADC", ZeroPage, 2, 3, opADC},
		{0x66, "ROR", ZeroPage, 2, 5, opROR},
		{0x67, "RRA", ZeroPage, 2, 5, opRRA},
		{0x68, "PLA", Implied, 1, 4, opPLA},
		{0x69, "ADC", Immediate, 2, 2, opADC},
		{0x6A, "ROR", Accumulator, 1, 2, opROR},
		{0x6C, "JMP", Indirect, 3, 5, opJMP},
		{0x6D, "ADC", Absolute, 3, 4, opADC},
		{0x6E, "ROR", Absolute, 3, 6, opROR},
		{0x6F, "RRA", Absolute, 3, 6, opRRA},

		{0x70, "BVS", Relative, 2, 2, opBVS},
		{0x71, "ADC", IndirectIndexed, 2, 5, opADC},
		{0x73, "RRA", IndirectIndexed, 2, 8, opRRA},
		{0x74, "NOP", ZeroPageX, 2, 4, opNOP},
		{0x75, "ADC", ZeroPageX, 2, 4, opADC},
		{0x76, "ROR", ZeroPageX, 2, 6, opROR},
		{0x77, "RRA", ZeroPageX, 2, 6, opRRA},
		{0x78, "SEI", Implied, 1, 2, opSEI},
		{0x79, "ADC", AbsoluteY, 3, 4, opADC},
		{0x7A, "NOP", Implied, 1, 2, opNOP},
		{0x7B, "RRA", AbsoluteY, 3, 7, opRRA},
		{0x7C, "NOP", AbsoluteX, 3, 4, opNOP},
		{0x7D, "ADC", AbsoluteX, 3, 4, opADC},
		{0x7E, "ROR", AbsoluteX, 3, 7, opROR},
		{0x7F, "RRA", AbsoluteX, 3, 7, opRRA},

		{0x80, "NOP", Immediate, 2, 2, opNOP},
		{0x81, "STA", IndexedIndirect, 2, 6, opSTA},
		{0x83, "SAX", IndexedIndirect, 2, 6, opSAX},
		{0x84, "STY", ZeroPage, 2, 3, opSTY},
		{0x85, "STA", ZeroPage, 2, 3, opSTA},
		{0x86, "STX", ZeroPage, 2, 3, opSTX},
		{0x87, "SAX", ZeroPage, 2, 3, opSAX},
		{0x88, "DEY", Implied, 1, 2, opDEY},
		{0x89, "NOP", Immediate, 2, 2, opNOP},
		{0x8A, "TXA", Implied, 1, 2, opTXA},
		{0x8C, "STY", Absolute, 3, 4, opSTY},
		{0x8D, "STA", Absolute, 3, 4, opSTA},
		{0x8E, "STX", Absolute, 3, 4, opSTX},
		{0x8F, "SAX", Absolute, 3, 4, opSAX},

		{0x90, "BCC", Relative, 2, 2, opBCC},
		{0x91, "STA", IndirectIndexed, 2, 6, opSTA},
		{0x94, "STY", ZeroPageX, 2, 4, opSTY},
		{0x95, "STA", ZeroPageX, 2, 4, opSTA},
		{0x96, "STX", ZeroPageY, 2, 4, opSTX},
		{0x97, "SAX", ZeroPageY, 2, 4, opSAX},
		{0x98, "TYA", Implied, 1, 2, opTYA},
		{0x99, "STA", AbsoluteY, 3, 5, opSTA},
		{0x9A, "TXS", Implied, 1, 2, opTXS},
		{0x9D, "STA", AbsoluteX, 3, 5, opSTA},

		{0xA0, "LDY", Immediate, 2, 2, opLDY},
		{0xA1, "LDA", IndexedIndirect, 2, 6, opLDA},
		{0xA2, "LDX", Immediate, 2, 2, opLDX},
		{0xA3, "LAX", IndexedIndirect, 2, 6, opLAX},
		{0xA4, "LDY", ZeroPage, 2, 3, opLDY},
		{0xA5, "LDA", ZeroPage, 2, 3, opLDA},
		{0xA6, "LDX", ZeroPage, 2, 3, opLDX},
		{0xA7, "LAX", ZeroPage, 2, 3, opLAX},
		{0xA8, "TAY", Implied, 1, 2, opTAY},
		{0xA9, "LDA", Immediate, 2, 2, opLDA},
		{0xAA, "TAX", Implied, 1, 2, opTAX},
		{0xAC, "LDY", Absolute, 3, 4, opLDY},
		{0xAD, "LDA", Absolute, 3, 4, opLDA},
		{0xAE, "LDX", Absolute, 3, 4, opLDX},
		{0xAF, "LAX", Absolute, 3, 4, opLAX},

		{0xB0, "BCS", Relative, 2, 2, opBCS},
		{0xB1, "LDA", IndirectIndexed, 2, 5, opLDA},
		{0xB3, "LAX", IndirectIndexed, 2, 5, opLAX},
		{0xB4, "LDY", ZeroPageX, 2, 4, opLDY},
		{0xB5, "LDA", ZeroPageX, 2, 4, opLDA},
		{0xB6, "LDX", ZeroPageY, 2, 4, opLDX},
		{0xB7, "LAX", ZeroPageY, 2, 4, opLAX},
		{0xB8, "CLV", Implied, 1, 2, opCLV},
		{0xB9, "LDA", AbsoluteY, 3, 4, opLDA},
		{0xBA, "TSX", Implied, 1, 2, opTSX},
		{0xBC, "LDY", AbsoluteX, 3, 4, opLDY},
		{0xBD, "LDA", AbsoluteX, 3, 4, opLDA},
		{0xBE, "LDX", AbsoluteY, 3, 4, opLDX},
		{0xBF, "LAX", AbsoluteY, 3, 4, opLAX},

		{0xC0, "CPY", Immediate, 2, 2, opCPY},
		{0xC1, "CMP", IndexedIndirect, 2, 6, opCMP},
		{0xC3, "DCP", IndexedIndirect, 2, 8, opDCP},
		{0xC4, "CPY", ZeroPage, 2, 3, opCPY},
		{0xC5, "CMP", ZeroPage, 2, 3, opCMP},
		{0xC6, "DEC", ZeroPage, 2, 5, opDEC},
		{0xC7, "DCP", ZeroPage, 2, 5, opDCP},
		{0xC8, "INY", Implied, 1, 2, opINY},
		{0xC9, "CMP", Immediate, 2, 2, opCMP},
		{0xCA, "DEX", Implied, 1, 2, opDEX},
		{0xCC, "CPY", Absolute, 3, 4, opCPY},
		{0xCD, "CMP", Absolute, 3, 4, opCMP},
		{0xCE, "DEC", Absolute, 3, 6, opDEC},
		{0xCF, "DCP", Absolute, 3, 6, opDCP},

		{0xD0, "BNE", Relative, 2, 2, opBNE},
		{0xD1, "CMP", IndirectIndexed, 2, 5, opCMP},
		{0xD3, "DCP", IndirectIndexed, 2, 8, opDCP},
		{0xD4, "NOP", ZeroPageX, 2, 4, opNOP},
		{0xD5, "CMP", ZeroPageX, 2, 4, opCMP},
		{0xD6, "DEC", ZeroPageX, 2, 6, opDEC},
		{0xD7, "DCP", ZeroPageX, 2, 6, opDCP},
		{0xD8, "CLD", Implied, 1, 2, opCLD},
		{0xD9, "CMP", AbsoluteY, 3, 4, opCMP},
		{0xDA, "NOP", Implied, 1, 2, opNOP},
		{0xDB, "DCP", AbsoluteY, 3, 7, opDCP},
		{0xDC, "NOP", AbsoluteX, 3, 4, opNOP},
		{0xDD, "CMP", AbsoluteX, 3, 4, opCMP},
		{0xDE, "DEC", AbsoluteX, 3, 7, opDEC},
		{0xDF, "DCP", AbsoluteX, 3, 7, opDCP},

		{0xE0, "CPX", Immediate, 2, 2, opCPX},
		{0xE1, "SBC", IndexedIndirect, 2, 6, opSBC},
		{0xE3, "ISB", IndexedIndirect, 2, 8, opISB},
		{0xE4, "CPX", ZeroPage, 2, 3, opCPX},
		{0xE5, "SBC", ZeroPage, 2, 3, opSBC},
		{0xE6, "INC", ZeroPage, 2, 5, opINC},
		{0xE7, "ISB", ZeroPage, 2, 5, opISB},
		{0xE8, "INX", Implied, 1, 2, opINX},
		{0xE9, "SBC", Immediate, 2, 2, opSBC},
		{0xEA, "NOP", Implied, 1, 2, opNOP},
		{0xEB, "SBC", Immediate, 2, 2, opSBC},
		{0xEC, "CPX", Absolute, 3, 4, opCPX},
		{0xED, "SBC", Absolute, 3, 4, opSBC},
		{0xEE, "INC", Absolute, 3, 6, opINC},
		{0xEF, "ISB", Absolute, 3, 6, opISB},

		{0xF0, "BEQ", Relative, 2, 2, opBEQ},
		{0xF1, "SBC", IndirectIndexed, 2, 5, opSBC},
		{0xF3, "ISB", IndirectIndexed, 2, 8, opISB},
		{0xF4, "NOP", ZeroPageX, 2, 4, opNOP},
		{0xF5, "SBC", ZeroPageX, 2, 4, opSBC},
		{0xF6, "INC", ZeroPageX, 2, 6, opINC},
		{0xF7, "ISB", ZeroPageX, 2, 6, opISB},
		{0xF8, "SED", Implied, 1, 2, opSED},
		{0xF9, "SBC", AbsoluteY, 3, 4, opSBC},
		{0xFA, "NOP", Implied, 1, 2, opNOP},
		{0xFB, "ISB", AbsoluteY, 3, 7, opISB},
		{0xFC, "NOP", AbsoluteX, 3, 4, opNOP},
		{0xFD, "SBC", AbsoluteX, 3, 4, opSBC},
		{0xFE, "INC", AbsoluteX, 3, 7, opINC},
		{0xFF, "ISB", AbsoluteX, 3, 7, opISB},
	}

	for _, s := range specs {
		c.instructions[s.opcode] = &Instruction{
			Name:   s.name,
			Bytes:  s.bytes,
			Cycles: s.cycles,
			Mode:   s.mode,
			exec:   s.fn,
		}
	}
}
