package ppu

import "testing"

type fakeBus struct {
	vram    [0x1000]uint8
	palette [32]uint8
	chr     [0x2000]uint8
}

func (b *fakeBus) Read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return b.chr[addr]
	case addr < 0x3F00:
		return b.vram[(addr-0x2000)%0x1000]
	default:
		idx := (addr - 0x3F00) & 0x1F
		if idx&0x03 == 0 {
			idx = 0
		}
		return b.palette[idx]
	}
}

func (b *fakeBus) Write(addr uint16, v uint8) error {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		b.chr[addr] = v
	case addr < 0x3F00:
		b.vram[(addr-0x2000)%0x1000] = v
	default:
		idx := (addr - 0x3F00) & 0x1F
		if idx&0x03 == 0 {
			idx = 0
		}
		b.palette[idx] = v
	}
	return nil
}

func TestPaletteMod4Aliasing(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2007, 0x16)
	for _, addr := range []uint16{0x3F00, 0x3F04, 0x3F08, 0x3F0C, 0x3F10, 0x3F14, 0x3F18, 0x3F1C} {
		if bus.Read(addr) != 0x16 {
			t.Fatalf("addr %04X mod4 alias failed", addr)
		}
	}
}

func TestScrollWriteFormulas(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.WriteRegister(0x2000, 0x03)
	if p.t&0x0C00 != 0x0C00 {
		t.Fatalf("t nametable bits = %04X", p.t&0x0C00)
	}
	p.WriteRegister(0x2005, 0x7D) // coarse X write
	if p.x != 0x05 {
		t.Fatalf("fine x = %d, want 5", p.x)
	}
	if !p.w {
		t.Fatal("w should be set after first scroll write")
	}
	p.ReadRegister(0x2002)
	if p.w {
		t.Fatal("reading $2002 should clear w")
	}
}

func TestFrameDotCount(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	total := dotsPerScanline * scanlinesPerFrame
	for i := 0; i < total; i++ {
		p.Step()
	}
	if p.scanline != 0 || p.col != 0 {
		t.Fatalf("after full even frame scanline=%d col=%d, want 0,0", p.scanline, p.col)
	}
	if !p.oddFrame {
		t.Fatal("frame parity should have toggled to odd")
	}
}

func TestSpriteOverflowAtNinthMatch(t *testing.T) {
	bus := &fakeBus{}
	p := New(bus)
	p.ppuMask = 0x18 // enable bg + sprites
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 10 // y=10, matches scanline 10
	}
	p.scanline = 10
	p.col = 65
	p.evaluateSprites()
	if p.spriteCount != 8 {
		t.Fatalf("spriteCount = %d, want 8", p.spriteCount)
	}
	if !p.spriteOverflow {
		t.Fatal("expected sprite overflow flag set")
	}
}
