// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panelsim implements a simulated MIPI-DSI host: a DSI bus handle, a
// panel IO that records commands, and a DPI panel that keeps its frame in
// memory and can print it to the terminal using ANSI color codes.
//
// Useful to bring up a board configuration before the panel arrives.
package panelsim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/espanel/dsipanel"
)

// Bus is a simulated DSI host.
type Bus struct {
	Name string
}

func (b *Bus) String() string {
	return b.Name
}

// Record is one command received by IO.
type Record struct {
	Cmd  byte
	Data []byte
}

// IO records the commands sent to the panel controller.
type IO struct {
	Records []Record
	// Err, when set, is returned by every TxParam and nothing is recorded.
	Err error
}

// TxParam implements dsipanel.IO.
func (s *IO) TxParam(cmd byte, param []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.Records = append(s.Records, Record{Cmd: cmd, Data: append([]byte(nil), param...)})
	return nil
}

// Opts represents the options of the simulated panel.
type Opts struct {
	// W receives the rendered frames. Defaults to a colorable stdout.
	W io.Writer
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Columns is the width of the rendering in characters. Defaults to 64.
	Columns int

	_ struct{}
}

// Panel is a simulated MIPI DPI panel.
type Panel struct {
	bus     dsipanel.DSIBus
	cfg     dsipanel.DPIConfig
	w       io.Writer
	palette *ansi256.Palette
	columns int

	frame      *image.NRGBA
	gapX, gapY int
	swapXY     bool

	// Inits and Halts count the calls to Init and Halt.
	Inits, Halts int

	buf bytes.Buffer
}

// NewDPIPanel returns a factory creating simulated panels, to be used as
// dsipanel.Opts.NewDPIPanel.
func NewDPIPanel(opts *Opts) dsipanel.DPIPanelFunc {
	if opts == nil {
		opts = &Opts{}
	}
	return func(bus dsipanel.DSIBus, cfg *dsipanel.DPIConfig) (dsipanel.Panel, error) {
		return New(bus, cfg, opts)
	}
}

// New returns a simulated panel.
func New(bus dsipanel.DSIBus, cfg *dsipanel.DPIConfig, opts *Opts) (*Panel, error) {
	if cfg == nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("panelsim: invalid DPI config")
	}
	switch cfg.BitsPerPixel {
	case 16, 18, 24:
	default:
		return nil, fmt.Errorf("panelsim: %d bits per pixel not supported", cfg.BitsPerPixel)
	}
	p := &Panel{
		bus:     bus,
		cfg:     *cfg,
		w:       opts.W,
		palette: opts.Palette,
		columns: opts.Columns,
		frame:   image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}
	if p.w == nil {
		p.w = colorable.NewColorableStdout()
	}
	if p.palette == nil {
		p.palette = ansi256.Default
	}
	if p.columns <= 0 {
		p.columns = 64
	}
	return p, nil
}

func (p *Panel) String() string {
	return fmt.Sprintf("panelsim{%v, %dx%d@%dbpp}", p.bus, p.cfg.Width, p.cfg.Height, p.cfg.BitsPerPixel)
}

// Init implements dsipanel.Panel.
func (p *Panel) Init() error {
	p.Inits++
	return nil
}

// Halt implements dsipanel.Panel. It resets the terminal colors.
func (p *Panel) Halt() error {
	p.Halts++
	_, err := p.w.Write([]byte("\n\033[0m"))
	return err
}

// Reset implements dsipanel.Panel. A DPI panel has no controller to reset.
func (p *Panel) Reset() error {
	return display.ErrNotImplemented
}

// Mirror implements dsipanel.Panel.
func (p *Panel) Mirror(x, y bool) error {
	return display.ErrNotImplemented
}

// InvertColor implements dsipanel.Panel.
func (p *Panel) InvertColor(bool) error {
	return display.ErrNotImplemented
}

// DisplayOnOff implements dsipanel.Panel.
func (p *Panel) DisplayOnOff(bool) error {
	return display.ErrNotImplemented
}

// Sleep implements dsipanel.Panel.
func (p *Panel) Sleep(bool) error {
	return display.ErrNotImplemented
}

// SwapXY implements dsipanel.Panel.
func (p *Panel) SwapXY(swap bool) error {
	p.swapXY = swap
	return nil
}

// SetGap implements dsipanel.Panel.
func (p *Panel) SetGap(x, y int) error {
	p.gapX, p.gapY = x, y
	return nil
}

// Bounds returns the frame size.
func (p *Panel) Bounds() image.Rectangle {
	return p.frame.Bounds()
}

// Frame returns the frame as last drawn.
func (p *Panel) Frame() *image.NRGBA {
	return p.frame
}

// DrawBitmap implements dsipanel.Panel. data holds the pixels of the window
// row by row, in the panel's pixel format: RGB565 little endian, RGB666 in
// the upper 6 bits of 3 bytes, or RGB888.
func (p *Panel) DrawBitmap(x0, y0, x1, y1 int, data []byte) error {
	x0, x1 = x0+p.gapX, x1+p.gapX
	y0, y1 = y0+p.gapY, y1+p.gapY
	r := image.Rect(x0, y0, x1, y1)
	if !r.In(p.frame.Bounds()) || r.Empty() {
		return fmt.Errorf("panelsim: window %v out of %v", r, p.frame.Bounds())
	}
	bpp := bytesPerPixel(p.cfg.BitsPerPixel)
	if len(data) < r.Dx()*r.Dy()*bpp {
		return fmt.Errorf("panelsim: %d bytes for a %dx%d window", len(data), r.Dx(), r.Dy())
	}
	i := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p.frame.SetNRGBA(x, y, decode(p.cfg.BitsPerPixel, data[i:i+bpp]))
			i += bpp
		}
	}
	return nil
}

// Refresh prints the frame, downscaled to the configured column count.
func (p *Panel) Refresh() error {
	b := p.frame.Bounds()
	step := (b.Dx() + p.columns - 1) / p.columns
	if step < 1 {
		step = 1
	}
	// This code is designed to minimize the amount of memory allocated per call.
	p.buf.Reset()
	_, _ = p.buf.WriteString("\033[0m")
	// Terminal cells are about twice as high as wide.
	for y := b.Min.Y; y < b.Max.Y; y += 2 * step {
		for x := b.Min.X; x < b.Max.X; x += step {
			_, _ = io.WriteString(&p.buf, p.palette.Block(p.frame.NRGBAAt(x, y)))
		}
		_, _ = p.buf.WriteString("\033[0m\n")
	}
	_, err := p.buf.WriteTo(p.w)
	return err
}

func bytesPerPixel(bits int) int {
	if bits == 16 {
		return 2
	}
	return 3
}

func decode(bits int, px []byte) color.NRGBA {
	switch bits {
	case 16:
		v := uint16(px[0]) | uint16(px[1])<<8
		r := byte(v>>11) & 0x1f
		g := byte(v>>5) & 0x3f
		b := byte(v) & 0x1f
		return color.NRGBA{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xff}
	case 18:
		return color.NRGBA{px[0] & 0xfc, px[1] & 0xfc, px[2] & 0xfc, 0xff}
	default:
		return color.NRGBA{px[0], px[1], px[2], 0xff}
	}
}

var _ dsipanel.Panel = &Panel{}
var _ dsipanel.IO = &IO{}
var _ fmt.Stringer = &Bus{}
