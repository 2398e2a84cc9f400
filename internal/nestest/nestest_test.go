package nestest

import (
	"strings"
	"testing"

	"nescore/internal/cpu"
)

type flatMemory struct {
	ram [0x10000]uint8
}

func (m *flatMemory) Read(addr uint16) uint8 { return m.ram[addr] }
func (m *flatMemory) Write(addr uint16, v uint8) uint16 {
	m.ram[addr] = v
	return 0
}
func (m *flatMemory) Read16(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}
func (m *flatMemory) Read16NoCross(addr uint16) uint16 {
	hi := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	return uint16(m.Read(addr)) | uint16(m.Read(hi))<<8
}

func TestParseLineExtractsAllFields(t *testing.T) {
	line := "C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD CYC:7"
	l, err := ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if l.PC != 0xC000 || l.A != 0 || l.X != 0 || l.Y != 0 || l.P != 0x24 || l.SP != 0xFD || l.Cycle != 7 {
		t.Fatalf("parsed = %+v", l)
	}
}

func TestRunMatchesTwoInstructionTrace(t *testing.T) {
	mem := &flatMemory{}
	mem.ram[0xC000] = 0xA9 // LDA #$42
	mem.ram[0xC001] = 0x42
	mem.ram[0xC002] = 0xEA // NOP

	c := cpu.New(mem)

	trace := strings.Join([]string{
		"C000  A9 42     LDA #$42                        A:00 X:00 Y:00 P:24 SP:FD CYC:7",
		"C002  EA        NOP                             A:42 X:00 Y:00 P:24 SP:FD CYC:9",
	}, "\n")

	if err := Run(c, strings.NewReader(trace)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunReportsMismatch(t *testing.T) {
	mem := &flatMemory{}
	mem.ram[0xC000] = 0xA9 // LDA #$99
	mem.ram[0xC001] = 0x99 // wrong expected value below

	c := cpu.New(mem)

	trace := "C000  A9 99     LDA #$99                        A:FF X:00 Y:00 P:24 SP:FD CYC:7"
	err := Run(c, strings.NewReader(trace))
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if _, ok := err.(*Mismatch); !ok {
		t.Fatalf("err type = %T, want *Mismatch", err)
	}
}
