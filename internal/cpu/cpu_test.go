package cpu

import "testing"

type testMemory struct {
	ram [0x10000]uint8
}

func (m *testMemory) Read(addr uint16) uint8 { return m.ram[addr] }
func (m *testMemory) Write(addr uint16, v uint8) uint16 {
	m.ram[addr] = v
	return 0
}
func (m *testMemory) Read16(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}
func (m *testMemory) Read16NoCross(addr uint16) uint16 {
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	return uint16(m.Read(addr)) | uint16(m.Read(hiAddr))<<8
}

func newTestCPU() (*CPU, *testMemory) {
	mem := &testMemory{}
	mem.ram[resetVector] = 0x00
	mem.ram[resetVector+1] = 0x80
	c := New(mem)
	c.Reset()
	for c.remainingCycles > 0 {
		c.Step()
	}
	return c, mem
}

func runOne(c *CPU) {
	if err := c.Step(); err != nil {
		panic(err)
	}
	for c.remainingCycles > 0 {
		c.Step()
	}
}

func TestResetVector(t *testing.T) {
	mem := &testMemory{}
	mem.ram[resetVector] = 0x34
	mem.ram[resetVector+1] = 0x12
	c := New(mem)
	c.Reset()
	if c.PC != 0x1234 {
		t.Fatalf("PC = %04X, want 1234", c.PC)
	}
	if c.cycles != 7 {
		t.Fatalf("cycles = %d, want 7", c.cycles)
	}
}

func TestADCCarry(t *testing.T) {
	c, mem := newTestCPU()
	c.A = 0x50
	c.C = false
	mem.ram[c.PC] = 0x69 // ADC #imm
	mem.ram[c.PC+1] = 0x50
	runOne(c)
	if c.A != 0xA0 || !c.N || !c.V || c.Z || c.C {
		t.Fatalf("A=%02X N=%v V=%v Z=%v C=%v", c.A, c.N, c.V, c.Z, c.C)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0x30FF] = 0x40
	mem.ram[0x3000] = 0x80
	mem.ram[0x3100] = 0x50
	mem.ram[c.PC] = 0x6C // JMP (ind)
	mem.ram[c.PC+1] = 0xFF
	mem.ram[c.PC+2] = 0x30
	runOne(c)
	if c.PC != 0x8040 {
		t.Fatalf("PC = %04X, want 8040", c.PC)
	}
}

func TestBranchPageCrossCycles(t *testing.T) {
	c, mem := newTestCPU()
	// next instruction at $80FF, target $8101: a page cross
	c.PC = 0x80FD
	c.Z = true
	mem.ram[0x80FD] = 0xF0 // BEQ
	mem.ram[0x80FE] = 0x02
	before := c.cycles
	runOne(c)
	if c.PC != 0x8101 {
		t.Fatalf("PC = %04X, want 8101", c.PC)
	}
	if c.cycles-before != 4 {
		t.Fatalf("cycles = %d, want 4", c.cycles-before)
	}
}

func TestPHPPLPRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.N, c.V, c.D, c.I, c.Z, c.C = true, false, true, false, true, false
	before := c.statusByte(false)
	s := c.statusByte(true)
	c.setStatusFromByte(s)
	after := c.statusByte(false)
	if before != after {
		t.Fatalf("status changed across PHP/PLP: %08b -> %08b", before, after)
	}
}

func TestStackPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	sp := c.SP
	c.push(0x42)
	if v := c.pop(); v != 0x42 {
		t.Fatalf("popped %02X, want 42", v)
	}
	if c.SP != sp {
		t.Fatalf("SP = %02X, want %02X", c.SP, sp)
	}
}

func TestIllegalOpcodeFatal(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[c.PC] = 0x02 // KIL, not in table
	if err := c.Step(); err == nil {
		t.Fatal("expected ErrIllegalOpcode")
	}
}

func TestUnofficialLAX(t *testing.T) {
	c, mem := newTestCPU()
	mem.ram[0x10] = 0x77
	mem.ram[c.PC] = 0xA5 // placeholder overwritten below
	mem.ram[c.PC] = 0xA7 // LAX zp
	mem.ram[c.PC+1] = 0x10
	runOne(c)
	if c.A != 0x77 || c.X != 0x77 {
		t.Fatalf("A=%02X X=%02X, want both 77", c.A, c.X)
	}
}
