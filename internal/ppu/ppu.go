// Package ppu implements a dot-accurate NES Picture Processing Unit: the
// 341x262 scanline state machine, background shift-register pipeline,
// sprite evaluation into secondary OAM, and the priority multiplexer.
package ppu

const (
	dotsPerScanline    = 341
	scanlinesPerFrame  = 262
	visibleScanlines   = 240
	frameWidth         = 256
	frameHeight        = 240
)

// Bus is the PPU-visible memory bus (CHR via mapper, nametables, palette).
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8) error
}

type spriteSlot struct {
	patternLo, patternHi uint8
	attr                 uint8
	x                    uint8
	isZero               bool
}

// PPU is the 2C02-equivalent rendering engine.
type PPU struct {
	mem Bus

	// Registers.
	ppuCtrl, ppuMask uint8
	oamAddr          uint8
	readBuffer       uint8

	// Internal scroll registers.
	v, t uint16
	x    uint8
	w    bool

	// Status latches.
	vblank, sprite0Hit, spriteOverflow bool

	scanline, col int
	oddFrame      bool

	oam          [256]uint8
	secondaryOAM [32]uint8
	spriteCount  int
	sprites      [8]spriteSlot

	// Background fetch latches and shift registers.
	ntByte, atByte, patternLo, patternHi uint8
	bgShiftPatternLo, bgShiftPatternHi   uint16
	bgShiftAttrLo, bgShiftAttrHi         uint16

	frameBuffer [frameWidth * frameHeight]uint32

	NMICallback           func()
	FrameCompleteCallback func()

	StrictCHRWrites bool
}

// New creates a PPU over mem. mem may be nil until SetBus is called, e.g.
// when the PPU bus can only be built after a cartridge (and its mirroring
// mode) is known.
func New(mem Bus) *PPU {
	return &PPU{mem: mem}
}

// SetBus (re)wires the PPU-visible bus, e.g. after loading a cartridge.
func (p *PPU) SetBus(mem Bus) { p.mem = mem }

// Reset returns the PPU to its post-power-on state.
func (p *PPU) Reset() {
	p.ppuCtrl, p.ppuMask = 0, 0
	p.oamAddr = 0
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.vblank, p.sprite0Hit, p.spriteOverflow = false, false, false
	p.scanline, p.col = 0, 0
	p.oddFrame = false
}

func (p *PPU) backgroundEnabled() bool { return p.ppuMask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool    { return p.ppuMask&0x10 != 0 }
func (p *PPU) renderingEnabled() bool  { return p.backgroundEnabled() || p.spritesEnabled() }
func (p *PPU) showLeftBackground() bool { return p.ppuMask&0x02 != 0 }
func (p *PPU) showLeftSprites() bool     { return p.ppuMask&0x04 != 0 }

// FrameBuffer returns the 256x240 RGB frame, packed 0x00RRGGBB per pixel.
func (p *PPU) FrameBuffer() *[frameWidth * frameHeight]uint32 { return &p.frameBuffer }

// ReadRegister services a CPU read of $2000-$2007 (already mirrored down
// to 8 addresses by the caller).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2002:
		status := uint8(0)
		if p.vblank {
			status |= 0x80
		}
		if p.sprite0Hit {
			status |= 0x40
		}
		if p.spriteOverflow {
			status |= 0x20
		}
		p.vblank = false
		p.w = false
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readPPUData()
	default:
		return 0
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x2000:
		p.ppuCtrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	case 0x2001:
		p.ppuMask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writePPUData(value)
	}
}

// WriteOAMByte is the OAM DMA write path ($4014): the caller supplies the
// already-offset OAM index (OAMADDR + transfer position, wrapped), so this
// skips only the register write's OAMADDR auto-increment, not OAMADDR itself.
func (p *PPU) WriteOAMByte(index uint8, value uint8) { p.oam[index] = value }

// OAMAddr reports the current OAMADDR ($2003), the starting offset for an
// OAM DMA transfer.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
		p.x = value & 0x07
		p.w = true
		return
	}
	p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
	p.w = false
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t & 0x00FF) | (uint16(value&0x3F) << 8)
		p.w = true
		return
	}
	p.t = (p.t & 0xFF00) | uint16(value)
	p.v = p.t
	p.w = false
}

func (p *PPU) addrIncrement() uint16 {
	if p.ppuCtrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readPPUData() uint8 {
	addr := p.v & 0x3FFF
	var result uint8
	if addr < 0x3F00 {
		result = p.readBuffer
		p.readBuffer = p.mem.Read(addr)
	} else {
		result = p.mem.Read(addr)
		p.readBuffer = p.mem.Read(addr - 0x1000)
	}
	p.v += p.addrIncrement()
	return result
}

func (p *PPU) writePPUData(value uint8) {
	err := p.mem.Write(p.v&0x3FFF, value)
	if err != nil && p.StrictCHRWrites {
		panic(err)
	}
	p.v += p.addrIncrement()
}

func (p *PPU) patternTableBase() uint16 {
	if p.ppuCtrl&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}

func (p *PPU) spritePatternTableBase() uint16 {
	if p.ppuCtrl&0x08 != 0 {
		return 0x1000
	}
	return 0x0000
}

func coarseX(v uint16) uint16 { return v & 0x001F }
func coarseY(v uint16) uint16 { return (v >> 5) & 0x001F }
func fineY(v uint16) uint16   { return (v >> 12) & 0x0007 }

func (p *PPU) incrementCoarseX() {
	if coarseX(p.v) == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if fineY(p.v) < 7 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	cy := coarseY(p.v)
	switch cy {
	case 29:
		p.v &^= 0x03E0
		p.v ^= 0x0800
	case 31:
		p.v &^= 0x03E0
	default:
		p.v += 0x0020
	}
}

func (p *PPU) copyX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) copyY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftPatternLo = (p.bgShiftPatternLo &^ 0x00FF) | uint16(p.patternLo)
	p.bgShiftPatternHi = (p.bgShiftPatternHi &^ 0x00FF) | uint16(p.patternHi)

	quadrant := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	attrBits := (p.atByte >> quadrant) & 0x03
	var lo, hi uint8
	if attrBits&0x01 != 0 {
		lo = 0xFF
	}
	if attrBits&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShiftAttrLo = (p.bgShiftAttrLo &^ 0x00FF) | uint16(lo)
	p.bgShiftAttrHi = (p.bgShiftAttrHi &^ 0x00FF) | uint16(hi)
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgShiftPatternLo <<= 1
	p.bgShiftPatternHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1
}

func (p *PPU) fetchBackgroundByte() {
	switch p.col % 8 {
	case 1:
		p.ntByte = p.mem.Read(0x2000 | (p.v & 0x0FFF))
	case 3:
		p.atByte = p.mem.Read(0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07))
	case 5:
		p.patternLo = p.mem.Read(p.patternTableBase() + 16*uint16(p.ntByte) + fineY(p.v))
	case 7:
		p.patternHi = p.mem.Read(p.patternTableBase() + 16*uint16(p.ntByte) + fineY(p.v) + 8)
	case 0:
		p.reloadShiftRegisters()
		p.incrementCoarseX()
	}
}

// Step advances the PPU by exactly one dot.
func (p *PPU) Step() {
	visible := p.scanline < visibleScanlines
	preRender := p.scanline == 261

	if visible || preRender {
		p.renderingDot(preRender)
	}

	switch {
	case p.scanline == 241 && p.col == 1:
		p.vblank = true
		if p.ppuCtrl&0x80 != 0 && p.NMICallback != nil {
			p.NMICallback()
		}
	case p.scanline == 261 && p.col == 1:
		p.vblank = false
		p.sprite0Hit = false
		p.spriteOverflow = false
	}

	p.advanceDot()
}

func (p *PPU) renderingDot(preRender bool) {
	inFetchWindow := (p.col >= 1 && p.col <= 256) || (p.col >= 321 && p.col <= 336)
	if inFetchWindow && p.renderingEnabled() {
		p.shiftBackgroundRegisters()
		p.fetchBackgroundByte()
	}

	if p.col == 1 {
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = 0xFF
		}
	}
	if p.col == 65 && p.renderingEnabled() {
		p.evaluateSprites()
	}
	if p.col == 257 {
		if p.renderingEnabled() {
			p.copyX()
		}
		if p.renderingEnabled() {
			p.fetchSprites()
		}
	}
	if preRender && p.col >= 280 && p.col <= 304 && p.renderingEnabled() {
		p.copyY()
	}

	if !preRender && p.col >= 1 && p.col <= 256 {
		p.outputPixel(p.col - 1)
	}

	if p.col == 256 && p.renderingEnabled() {
		p.incrementY()
	}
}

func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	p.spriteOverflow = false
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}
	line := p.scanline
	matches := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if line < y || line >= y+height {
			continue
		}
		if matches < 8 {
			copy(p.secondaryOAM[matches*4:matches*4+4], p.oam[i*4:i*4+4])
			if i == 0 {
				p.sprites[matches].isZero = true
			}
			matches++
		} else {
			p.spriteOverflow = true
			break
		}
	}
	p.spriteCount = matches
}

func (p *PPU) fetchSprites() {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}
	for i := 0; i < 8; i++ {
		p.sprites[i].patternLo, p.sprites[i].patternHi = 0, 0
		p.sprites[i].x = 0xFF
		if i != 0 {
			p.sprites[i].isZero = false
		}
	}
	for i := 0; i < p.spriteCount; i++ {
		y := p.secondaryOAM[i*4]
		tile := p.secondaryOAM[i*4+1]
		attr := p.secondaryOAM[i*4+2]
		spriteX := p.secondaryOAM[i*4+3]

		row := uint16(p.scanline) - uint16(y)
		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0
		if flipV {
			row = uint16(height-1) - row
		}

		var base uint16
		var patternIndex uint16
		if height == 16 {
			base = 0x0000
			if tile&0x01 != 0 {
				base = 0x1000
			}
			tile &^= 0x01
			patternIndex = uint16(tile)
			if row >= 8 {
				patternIndex++
				row -= 8
			}
		} else {
			base = p.spritePatternTableBase()
			patternIndex = uint16(tile)
		}

		lo := p.mem.Read(base + 16*patternIndex + row)
		hi := p.mem.Read(base + 16*patternIndex + row + 8)
		if flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.sprites[i].patternLo = lo
		p.sprites[i].patternHi = hi
		p.sprites[i].attr = attr
		p.sprites[i].x = spriteX
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

func (p *PPU) outputPixel(dot int) {
	var bgColor, bgPalette uint8
	if p.backgroundEnabled() && (dot >= 8 || p.showLeftBackground()) {
		bitMux := uint16(0x8000) >> p.x
		b0 := p.bgShiftPatternLo&bitMux != 0
		b1 := p.bgShiftPatternHi&bitMux != 0
		if b0 {
			bgColor |= 0x01
		}
		if b1 {
			bgColor |= 0x02
		}
		a0 := p.bgShiftAttrLo&bitMux != 0
		a1 := p.bgShiftAttrHi&bitMux != 0
		if a0 {
			bgPalette |= 0x01
		}
		if a1 {
			bgPalette |= 0x02
		}
	}

	var spriteColor, spritePalette uint8
	var spritePriorityBack, spriteIsZero bool
	spriteFound := false
	if p.spritesEnabled() && (dot >= 8 || p.showLeftSprites()) {
		for i := 0; i < p.spriteCount; i++ {
			offset := dot - int(p.sprites[i].x)
			if offset < 0 || offset > 7 {
				continue
			}
			bit := 7 - offset
			lo := (p.sprites[i].patternLo >> uint(bit)) & 1
			hi := (p.sprites[i].patternHi >> uint(bit)) & 1
			color := lo | hi<<1
			if color == 0 {
				continue
			}
			spriteColor = color
			spritePalette = p.sprites[i].attr & 0x03
			spritePriorityBack = p.sprites[i].attr&0x20 != 0
			spriteIsZero = p.sprites[i].isZero
			spriteFound = true
			break
		}
	}

	if bgColor != 0 && spriteFound && spriteIsZero && dot != 255 &&
		p.backgroundEnabled() && p.spritesEnabled() {
		p.sprite0Hit = true
	}

	var paletteAddr uint16
	switch {
	case bgColor == 0 && (!spriteFound || spriteColor == 0):
		paletteAddr = 0x3F00
	case bgColor == 0:
		paletteAddr = 0x3F10 + uint16(spritePalette)*4 + uint16(spriteColor)
	case !spriteFound || spriteColor == 0:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	case spritePriorityBack:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	default:
		paletteAddr = 0x3F10 + uint16(spritePalette)*4 + uint16(spriteColor)
	}

	idx := p.mem.Read(paletteAddr) & 0x3F
	p.frameBuffer[p.scanline*frameWidth+dot] = nesPalette[idx]
}

func (p *PPU) advanceDot() {
	p.col++
	if p.col > 340 {
		p.col = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			if p.FrameCompleteCallback != nil {
				p.FrameCompleteCallback()
			}
		}
	}
	if p.scanline == 0 && p.col == 0 && p.oddFrame && p.renderingEnabled() {
		p.col = 1
	}
}

// Scanline and Dot expose the current beam position (for tests/tools).
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.col }
func (p *PPU) OddFrame() bool { return p.oddFrame }
