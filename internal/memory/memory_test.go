package memory

import "testing"

type fakePPU struct {
	regs    [8]uint8
	oam     [256]uint8
	oamAddr uint8
}

func (p *fakePPU) ReadRegister(addr uint16) uint8     { return p.regs[addr&7] }
func (p *fakePPU) WriteRegister(addr uint16, v uint8) { p.regs[addr&7] = v }
func (p *fakePPU) WriteOAMByte(i uint8, v uint8)      { p.oam[i] = v }
func (p *fakePPU) OAMAddr() uint8                     { return p.oamAddr }

type fakeAPU struct{ last uint8 }

func (a *fakeAPU) ReadStatus() uint8             { return a.last }
func (a *fakeAPU) WriteRegister(addr uint16, v uint8) { a.last = v }

type fakeInput struct{ v uint8 }

func (i *fakeInput) Read(addr uint16) uint8  { return i.v }
func (i *fakeInput) Write(addr uint16, v uint8) { i.v = v }

type fakeCart struct {
	prg [0x8000]uint8
	ram [0x2000]uint8
}

func (c *fakeCart) ReadPRG(addr uint16) uint8      { return c.prg[addr-0x8000] }
func (c *fakeCart) WritePRG(addr uint16, v uint8)  {}
func (c *fakeCart) ReadRAM(addr uint16) uint8      { return c.ram[addr-0x6000] }
func (c *fakeCart) WriteRAM(addr uint16, v uint8)  { c.ram[addr-0x6000] = v }

func TestRAMMirroring(t *testing.T) {
	m := New(&fakePPU{}, &fakeAPU{}, &fakeInput{}, &fakeCart{})
	m.Write(0x0000, 0x42)
	if got := m.Read(0x0800); got != 0x42 {
		t.Fatalf("mirrored read = %02X, want 42", got)
	}
}

func TestOAMDMAStallParity(t *testing.T) {
	ppu := &fakePPU{}
	m := New(ppu, &fakeAPU{}, &fakeInput{}, &fakeCart{})
	m.Write(0x0200, 0xAB)
	m.SetCycleParitySource(func() bool { return false })
	if extra := m.Write(0x4014, 0x02); extra != 513 {
		t.Fatalf("extra = %d, want 513", extra)
	}
	if ppu.oam[0] != 0xAB {
		t.Fatalf("oam[0] = %02X, want AB", ppu.oam[0])
	}
	m.SetCycleParitySource(func() bool { return true })
	if extra := m.Write(0x4014, 0x02); extra != 514 {
		t.Fatalf("extra = %d, want 514", extra)
	}
}

func TestOAMDMAStartsAtOAMAddr(t *testing.T) {
	ppu := &fakePPU{oamAddr: 0x10}
	m := New(ppu, &fakeAPU{}, &fakeInput{}, &fakeCart{})
	m.Write(0x0300, 0xCD)
	m.SetCycleParitySource(func() bool { return false })
	m.Write(0x4014, 0x03)
	if ppu.oam[0x10] != 0xCD {
		t.Fatalf("oam[10] = %02X, want CD", ppu.oam[0x10])
	}
	if ppu.oam[0x00] != 0x00 {
		t.Fatalf("oam[0] = %02X, want untouched 00", ppu.oam[0x00])
	}
	// wraps at the end of OAM back to index 0
	ppuWrap := &fakePPU{oamAddr: 0xFF}
	mw := New(ppuWrap, &fakeAPU{}, &fakeInput{}, &fakeCart{})
	mw.Write(0x0400, 0x7E)
	mw.Write(0x0401, 0x7F)
	mw.SetCycleParitySource(func() bool { return false })
	mw.Write(0x4014, 0x04)
	if ppuWrap.oam[0xFF] != 0x7E {
		t.Fatalf("oam[FF] = %02X, want 7E", ppuWrap.oam[0xFF])
	}
	if ppuWrap.oam[0x00] != 0x7F {
		t.Fatalf("oam[0] = %02X, want 7F", ppuWrap.oam[0x00])
	}
}

type fakeCHR struct{ chr [0x2000]uint8 }

func (c *fakeCHR) ReadCHR(addr uint16) uint8 { return c.chr[addr] }
func (c *fakeCHR) WriteCHR(addr uint16, v uint8) error {
	return ErrReadOnlyWrite
}

func TestPaletteMirrorAliasing(t *testing.T) {
	pm := NewPPUMemory(&fakeCHR{}, MirrorHorizontal)
	pm.Write(0x3F00, 0x20)
	for _, addr := range []uint16{0x3F00, 0x3F04, 0x3F08, 0x3F0C, 0x3F10, 0x3F14, 0x3F18, 0x3F1C} {
		if got := pm.Read(addr); got != 0x20 {
			t.Fatalf("Read(%04X) = %02X, want 20", addr, got)
		}
	}
}

func TestHorizontalMirroring(t *testing.T) {
	pm := NewPPUMemory(&fakeCHR{}, MirrorHorizontal)
	pm.Write(0x2000, 0x11)
	if got := pm.Read(0x2400); got != 0x11 {
		t.Fatalf("Read(2400) = %02X, want 11", got)
	}
	pm.Write(0x2800, 0x22)
	if got := pm.Read(0x2C00); got != 0x22 {
		t.Fatalf("Read(2C00) = %02X, want 22", got)
	}
}
