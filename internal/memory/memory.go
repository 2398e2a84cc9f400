// Package memory implements the NES CPU-side and PPU-side address buses:
// RAM mirroring, register mirroring, OAM DMA, and cartridge routing.
package memory

// PPURegisters is the CPU-visible slice of the PPU: the 8 memory-mapped
// registers at $2000-$2007 (mirrored every 8 bytes) plus the OAM DMA
// write path.
type PPURegisters interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
	WriteOAMByte(index uint8, value uint8)
	OAMAddr() uint8
}

// APURegisters is the register-file stub: writes are stored, only the
// $4015 status byte is read back (other APU reads return open bus), no
// synthesis.
type APURegisters interface {
	ReadStatus() uint8
	WriteRegister(addr uint16, value uint8)
}

// InputPorts serves $4016/$4017.
type InputPorts interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Cartridge is the CPU-visible slice of the cartridge: PRG-ROM and
// PRG-RAM windows, routed through the mapper.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)
}

// Memory is the CPU-visible system bus.
type Memory struct {
	ram [0x0800]uint8

	ppu   PPURegisters
	apu   APURegisters
	input InputPorts
	cart  Cartridge

	openBus uint8

	// cycleParityOdd reports whether the current CPU total-cycle count is
	// odd, needed to compute the 513/514 OAM DMA stall. Wired by Bus.
	cycleParityOdd func() bool
}

// New creates a CPU bus. cart may be nil until LoadCartridge is called.
func New(ppu PPURegisters, apu APURegisters, input InputPorts, cart Cartridge) *Memory {
	return &Memory{ppu: ppu, apu: apu, input: input, cart: cart}
}

// SetCartridge (re)wires the PRG window, e.g. after loading a new ROM.
func (m *Memory) SetCartridge(cart Cartridge) { m.cart = cart }

// SetCycleParitySource wires the CPU cycle-parity query used by OAM DMA.
func (m *Memory) SetCycleParitySource(f func() bool) { m.cycleParityOdd = f }

// Read decodes and dispatches a CPU read, updating the lingering open-bus
// value used for unmapped ranges.
func (m *Memory) Read(addr uint16) uint8 {
	var v uint8
	switch {
	case addr < 0x2000:
		v = m.ram[addr&0x07FF]
	case addr < 0x4000:
		v = m.ppu.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4015:
		v = m.apu.ReadStatus()
	case addr == 0x4016 || addr == 0x4017:
		v = m.input.Read(addr)
	case addr < 0x4018:
		v = m.openBus
	case addr < 0x6000:
		v = m.openBus
	case addr < 0x8000:
		if m.cart != nil {
			v = m.cart.ReadRAM(addr)
		} else {
			v = m.openBus
		}
	default:
		if m.cart != nil {
			v = m.cart.ReadPRG(addr)
		} else {
			v = m.openBus
		}
	}
	m.openBus = v
	return v
}

// Read16 performs a little-endian 16-bit read across two sequential
// addresses (no page-wrap).
func (m *Memory) Read16(addr uint16) uint16 {
	lo := uint16(m.Read(addr))
	hi := uint16(m.Read(addr + 1))
	return hi<<8 | lo
}

// Read16NoCross is like Read16 but the high byte wraps within addr's page,
// reproducing the indirect-JMP and zero-page-pointer page-wrap behavior.
func (m *Memory) Read16NoCross(addr uint16) uint16 {
	lo := uint16(m.Read(addr))
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := uint16(m.Read(hiAddr))
	return hi<<8 | lo
}

// Write decodes and dispatches a CPU write, returning extra CPU stall
// cycles (513/514 for an OAM DMA trigger, 0 otherwise).
func (m *Memory) Write(addr uint16, value uint8) uint16 {
	switch {
	case addr < 0x2000:
		m.ram[addr&0x07FF] = value
	case addr < 0x4000:
		m.ppu.WriteRegister(0x2000+addr&0x0007, value)
	case addr == 0x4014:
		return m.triggerOAMDMA(value)
	case addr == 0x4016:
		m.input.Write(addr, value)
	case addr < 0x4018:
		m.apu.WriteRegister(addr, value)
	case addr < 0x6000:
		// open bus / disabled
	case addr < 0x8000:
		if m.cart != nil {
			m.cart.WriteRAM(addr, value)
		}
	default:
		if m.cart != nil {
			m.cart.WritePRG(addr, value)
		}
	}
	return 0
}

func (m *Memory) triggerOAMDMA(page uint8) uint16 {
	base := uint16(page) << 8
	start := m.ppu.OAMAddr()
	for i := 0; i < 256; i++ {
		m.ppu.WriteOAMByte(start+uint8(i), m.Read(base+uint16(i)))
	}
	if m.cycleParityOdd != nil && m.cycleParityOdd() {
		return 514
	}
	return 513
}
