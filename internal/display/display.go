// Package display presents a console frame buffer in an Ebitengine window
// and feeds keyboard state into the NES controller ports.
package display

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/bus"
	"nescore/internal/config"
	"nescore/internal/input"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// Display drives the Ebitengine game loop, stepping the console once per
// Update and blitting its frame buffer on Draw.
type Display struct {
	console *bus.Bus
	cfg     *config.Config

	frameImage   *ebiten.Image
	windowWidth  int
	windowHeight int
	drawCount    int

	keyBindings map[ebiten.Key]keyTarget
}

type keyTarget struct {
	port   int
	button input.Button
}

// New creates a Display over an already-reset console.
func New(console *bus.Bus, cfg *config.Config) *Display {
	w, h := cfg.GetWindowResolution()
	d := &Display{
		console:      console,
		cfg:          cfg,
		frameImage:   ebiten.NewImage(nesWidth, nesHeight),
		windowWidth:  w,
		windowHeight: h,
	}
	d.keyBindings = buildKeyBindings(cfg)

	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Window.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return d
}

// Run starts the Ebitengine game loop; it blocks until the window closes.
func (d *Display) Run() error {
	return ebiten.RunGame(d)
}

// Update implements ebiten.Game: advance one console frame and sample
// keyboard state into both controller ports.
func (d *Display) Update() error {
	d.pollInput()
	if err := d.console.RunFrame(); err != nil {
		return err
	}
	return nil
}

// Draw implements ebiten.Game: blit the console's frame buffer, scaled and
// centered to fit the window.
func (d *Display) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 255})

	fb := d.console.FrameBuffer()
	pix := make([]byte, nesWidth*nesHeight*4)
	for i, px := range fb {
		pix[i*4+0] = uint8(px >> 16)
		pix[i*4+1] = uint8(px >> 8)
		pix[i*4+2] = uint8(px)
		pix[i*4+3] = 255
	}
	d.frameImage.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	scaleX := float64(d.windowWidth) / float64(nesWidth)
	scaleY := float64(d.windowHeight) / float64(nesHeight)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	offsetX := (float64(d.windowWidth) - nesWidth*scale) / 2
	offsetY := (float64(d.windowHeight) - nesHeight*scale) / 2
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(d.frameImage, op)

	d.drawCount++
	if d.drawCount%1800 == 0 {
		log.Printf("display: drew frame %d at %.2fx", d.drawCount, scale)
	}
}

// Layout implements ebiten.Game.
func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	d.windowWidth, d.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (d *Display) pollInput() {
	for key, target := range d.keyBindings {
		if !inpututil.IsKeyJustPressed(key) && !inpututil.IsKeyJustReleased(key) {
			continue
		}
		pressed := ebiten.IsKeyPressed(key)
		if target.port == 1 {
			d.console.Input.Controller1.SetButton(target.button, pressed)
		} else {
			d.console.Input.Controller2.SetButton(target.button, pressed)
		}
	}
}

func buildKeyBindings(cfg *config.Config) map[ebiten.Key]keyTarget {
	bindings := map[ebiten.Key]keyTarget{}
	addMapping(bindings, 1, cfg.Input.Player1Keys)
	addMapping(bindings, 2, cfg.Input.Player2Keys)
	return bindings
}

func addMapping(bindings map[ebiten.Key]keyTarget, port int, keys config.KeyMapping) {
	for name, button := range map[string]input.Button{
		keys.Up: input.ButtonUp, keys.Down: input.ButtonDown,
		keys.Left: input.ButtonLeft, keys.Right: input.ButtonRight,
		keys.A: input.ButtonA, keys.B: input.ButtonB,
		keys.Start: input.ButtonStart, keys.Select: input.ButtonSelect,
	} {
		if k, ok := ebitenKeyByName[name]; ok {
			bindings[k] = keyTarget{port: port, button: button}
		}
	}
}

var ebitenKeyByName = map[string]ebiten.Key{
	"W": ebiten.KeyW, "A": ebiten.KeyA, "S": ebiten.KeyS, "D": ebiten.KeyD,
	"J": ebiten.KeyJ, "K": ebiten.KeyK,
	"Return": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"N": ebiten.KeyN, "M": ebiten.KeyM,
	"RShift": ebiten.KeyShiftRight, "RCtrl": ebiten.KeyControlRight,
}
