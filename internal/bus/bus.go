// Package bus wires the CPU, PPU, APU, input ports and cartridge together
// into a runnable console: the master clock interleave, NMI/IRQ routing,
// and cartridge (re)loading.
package bus

import (
	"fmt"

	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// Bus owns every console component and drives them at the NES's native
// 1 CPU-cycle : 3 PPU-dot ratio.
type Bus struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.Ports

	memory    *memory.Memory
	ppuMemory *memory.PPUMemory
	cart      *cartridge.Cartridge

	// FrameReady is invoked once per completed PPU frame.
	FrameReady func()
}

// New builds a console with no cartridge loaded. LoadCartridge must be
// called before Reset/RunFrame.
func New() *Bus {
	b := &Bus{
		APU:   apu.New(),
		Input: input.NewPorts(),
	}

	b.PPU = ppu.New(nil)
	b.memory = memory.New(b.PPU, b.APU, b.Input, nil)
	b.CPU = cpu.New(b.memory)

	b.memory.SetCycleParitySource(func() bool { return b.CPU.TotalCycles()%2 == 1 })
	b.PPU.NMICallback = b.CPU.TriggerNMI
	b.PPU.FrameCompleteCallback = func() {
		if b.FrameReady != nil {
			b.FrameReady()
		}
	}
	return b
}

// LoadCartridge wires a parsed cartridge into both the CPU-side and
// PPU-side buses and rebuilds the PPU-side mirroring.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.ppuMemory = memory.NewPPUMemory(cart, cart.MirrorMode())
	b.PPU.SetBus(b.ppuMemory)
	b.memory.SetCartridge(cart)
}

// Reset performs the console power-on/reset sequence.
func (b *Bus) Reset() {
	b.CPU.Reset()
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
}

// Step advances the console by exactly one CPU cycle (three PPU dots).
// The CPU step runs first; a latch the PPU raises during its three dots
// (e.g. entering vblank) is only observed by the CPU at the start of the
// next window, per the console's register-polling semantics.
func (b *Bus) Step() error {
	if err := b.CPU.Step(); err != nil {
		return fmt.Errorf("bus step: %w", err)
	}
	for i := 0; i < 3; i++ {
		b.PPU.Step()
	}
	return nil
}

// RunFrame steps the console until one PPU frame completes.
func (b *Bus) RunFrame() error {
	startOdd := b.PPU.OddFrame()
	for b.PPU.OddFrame() == startOdd {
		if err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

// FrameBuffer exposes the PPU's current frame for presentation.
func (b *Bus) FrameBuffer() *[256 * 240]uint32 { return b.PPU.FrameBuffer() }
