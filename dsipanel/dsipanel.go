// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/espanel/common"
	"github.com/GermanBionicSystems/espanel/lcdcmd"
)

const packageName = "dsipanel"

type variant string

const (
	simple    variant = "Simple"
	noDSIConf variant = "NoDSIConf"
)

// defaultInitCmds is played when the vendor config has no table.
var defaultInitCmds = []lcdcmd.InitCmd{}

// Dev decorates a vendor MIPI DPI panel. DrawBitmap, SwapXY and SetGap go
// straight to the vendor panel until Halt.
//
// Dev is not safe for concurrent use.
type Dev struct {
	Panel

	variant variant
	io      IO
	lanes   int

	rst       gpio.PinOut
	rstActive gpio.Level

	// Shadows of the MADCTL and COLMOD registers.
	madctl byte
	colmod byte

	initCmds []lcdcmd.InitCmd

	// The vendor panel's own Init and Halt.
	origInit func() error
	origHalt func() error

	halted bool
	log    logrus.FieldLogger
	sleep  func(time.Duration)
}

// NewSimple returns a panel for controllers that are configured by their
// firmware. Its init table is never transmitted, only its delays are
// honored, and Mirror, InvertColor, DisplayOnOff and Sleep do nothing.
func NewSimple(io IO, cfg *DevConfig, opts *Opts) (*Dev, error) {
	return newDev(io, cfg, opts, simple)
}

// NewNoDSIConf returns a panel that transmits the vendor init table over
// io and leaves the DSI link setup to the vendor DPI panel.
func NewNoDSIConf(io IO, cfg *DevConfig, opts *Opts) (*Dev, error) {
	return newDev(io, cfg, opts, noDSIConf)
}

func newDev(io IO, cfg *DevConfig, opts *Opts, v variant) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if io == nil || cfg == nil {
		return nil, common.Errorf(packageName, common.ErrInvalidArgument, nil, "nil io or config")
	}
	vc := cfg.Vendor
	if vc == nil || vc.MIPI.DPI == nil || vc.MIPI.DSIBus == nil {
		return nil, common.Errorf(packageName, common.ErrInvalidArgument, nil, "invalid vendor config")
	}
	if opts.NewDPIPanel == nil {
		return nil, common.Errorf(packageName, common.ErrUnsupported, nil, "MIPI-DSI is not supported")
	}
	l := opts.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}

	d := &Dev{
		variant:   v,
		io:        io,
		lanes:     vc.MIPI.LaneNum,
		rst:       cfg.Reset,
		rstActive: gpio.Level(cfg.ResetActiveHigh),
		initCmds:  vc.InitCmds,
		log:       l.WithFields(logrus.Fields{"driver": packageName, "variant": string(v)}),
		sleep:     time.Sleep,
	}
	if d.rst != nil {
		if err := d.rst.Out(!d.rstActive); err != nil {
			return nil, common.Errorf(packageName, common.ErrTransportFailure, err, "configure reset pin %s", d.rst)
		}
	}
	err := d.setShadows(cfg)
	if err == nil {
		err = d.wrap(opts.NewDPIPanel, vc.MIPI)
	}
	if err != nil {
		_ = d.releaseReset()
		return nil, err
	}
	d.log.WithFields(logrus.Fields{
		"panel": d.Panel.String(),
		"lanes": d.lanes,
	}).Debug("created")
	return d, nil
}

func (d *Dev) setShadows(cfg *DevConfig) error {
	madctl, ok := cfg.ColorOrder.MADCTL()
	if !ok {
		return common.Errorf(packageName, common.ErrUnsupported, nil, "color order %s", cfg.ColorOrder)
	}
	colmod, ok := lcdcmd.PixelFormat(cfg.BitsPerPixel)
	if !ok {
		return common.Errorf(packageName, common.ErrUnsupported, nil, "%d bits per pixel", cfg.BitsPerPixel)
	}
	d.madctl, d.colmod = madctl, colmod
	return nil
}

// wrap creates the vendor panel and takes over its operations.
func (d *Dev) wrap(newPanel DPIPanelFunc, mipi MIPIConfig) error {
	inner, err := newPanel(mipi.DSIBus, mipi.DPI)
	if err != nil {
		return common.Errorf(packageName, common.ErrTransportFailure, err, "create MIPI DPI panel")
	}
	if inner == nil {
		return common.Errorf(packageName, common.ErrInvalidState, nil, "vendor returned a nil panel")
	}
	d.origInit = inner.Init
	d.origHalt = inner.Halt
	d.Panel = inner
	return nil
}

func (d *Dev) releaseReset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Halt(); err != nil {
		return fmt.Errorf("release reset pin %s: %w", d.rst, err)
	}
	return nil
}

func (d *Dev) String() string {
	if d.Panel == nil {
		return fmt.Sprintf("%s{}", d.variant)
	}
	return fmt.Sprintf("%s{%s}", d.variant, d.Panel)
}

// Capabilities reports the color depths and functions the panel supports.
func (d *Dev) Capabilities() Capabilities {
	c := capabilities
	c.ColorBits = append([]int(nil), capabilities.ColorBits...)
	return c
}

// Orientation returns the MADCTL shadow.
func (d *Dev) Orientation() byte {
	return d.madctl
}

// PixelFormat returns the COLMOD shadow.
func (d *Dev) PixelFormat() byte {
	return d.colmod
}

// Init plays the init table then brings up the vendor pixel interface.
//
// A table entry that sets MADCTL or COLMOD takes that register over: the
// driver does not program it on its own and a warning is logged.
func (d *Dev) Init() error {
	if d.halted {
		return errHalted
	}
	cmds := d.initCmds
	if cmds == nil {
		cmds = defaultInitCmds
	}
	for _, c := range cmds {
		if c.Claims() {
			d.log.WithField("cmd", fmt.Sprintf("%#02x", c.Cmd)).Warn("command is set by the init table and overrides the driver's value")
		}
	}
	if claimed, _, madctl := claims(cmds); claimed {
		d.madctl = madctl
	}

	eh := &errorHandler{d: d}
	var ctrl controller = eh
	if d.variant == simple {
		ctrl = dryRun{eh}
	}
	initPanel(ctrl, d.madctl, d.colmod, cmds)
	if eh.err != nil {
		return common.Transport(packageName, eh.err, "init")
	}
	d.log.WithFields(logrus.Fields{
		"commands": len(cmds),
		"delay":    lcdcmd.TotalDelay(cmds),
	}).Debug("init table done")

	if err := d.origInit(); err != nil {
		return common.Wrap(packageName, fmt.Errorf("init MIPI DPI panel: %w", err))
	}
	return nil
}

// Reset pulses the reset line. Without one, NoDSIConf sends a software
// reset instead; Simple only waits.
func (d *Dev) Reset() error {
	if d.halted {
		return errHalted
	}
	eh := &errorHandler{d: d}
	if d.rst != nil {
		resetPulse(eh, d.rstActive)
	} else {
		if d.variant == noDSIConf {
			eh.sendCommand(lcdcmd.SWRESET, nil)
		}
		eh.wait(20 * time.Millisecond)
	}
	return common.Transport(packageName, eh.err, "reset")
}

// Mirror updates the mirror bits of the MADCTL shadow. The new value goes
// out with the next WriteOrientation. It does nothing on Simple.
func (d *Dev) Mirror(x, y bool) error {
	if d.halted {
		return errHalted
	}
	if d.variant == simple {
		d.log.WithFields(logrus.Fields{"x": x, "y": y}).Debug("mirror not supported, ignored")
		return nil
	}
	m := d.madctl
	if x {
		m |= lcdcmd.MADCTLMirrorX
	} else {
		m &^= lcdcmd.MADCTLMirrorX
	}
	if y {
		m |= lcdcmd.MADCTLMirrorY
	} else {
		m &^= lcdcmd.MADCTLMirrorY
	}
	d.madctl = m
	d.log.WithField("madctl", fmt.Sprintf("%#02x", m)).Debug("mirror")
	return nil
}

// WriteOrientation sends the MADCTL shadow. It does nothing on Simple.
func (d *Dev) WriteOrientation() error {
	return d.command(lcdcmd.MADCTL, []byte{d.madctl}, 0)
}

// InvertColor turns color inversion on or off.
func (d *Dev) InvertColor(invert bool) error {
	cmd := lcdcmd.INVOFF
	if invert {
		cmd = lcdcmd.INVON
	}
	return d.command(cmd, nil, 0)
}

// DisplayOnOff turns the display on or off.
func (d *Dev) DisplayOnOff(on bool) error {
	cmd := lcdcmd.DISPOFF
	if on {
		cmd = lcdcmd.DISPON
	}
	return d.command(cmd, nil, 0)
}

// Sleep enters or leaves sleep mode, then waits 100ms for the controller to
// settle.
func (d *Dev) Sleep(sleep bool) error {
	cmd := lcdcmd.SLPOUT
	if sleep {
		cmd = lcdcmd.SLPIN
	}
	return d.command(cmd, nil, 100*time.Millisecond)
}

// command sends a single command on NoDSIConf, then waits settle.
func (d *Dev) command(cmd byte, data []byte, settle time.Duration) error {
	if d.halted {
		return errHalted
	}
	if d.variant == simple {
		d.log.WithField("cmd", fmt.Sprintf("%#02x", cmd)).Debug("not supported, ignored")
		return nil
	}
	eh := &errorHandler{d: d}
	eh.sendCommand(cmd, data)
	if settle > 0 {
		eh.wait(settle)
	}
	return common.Transport(packageName, eh.err, "command %#02x", cmd)
}

// DrawBitmap forwards to the vendor panel.
func (d *Dev) DrawBitmap(x0, y0, x1, y1 int, data []byte) error {
	if d.halted {
		return errHalted
	}
	return d.Panel.DrawBitmap(x0, y0, x1, y1, data)
}

// SwapXY forwards to the vendor panel.
func (d *Dev) SwapXY(swap bool) error {
	if d.halted {
		return errHalted
	}
	return d.Panel.SwapXY(swap)
}

// SetGap forwards to the vendor panel.
func (d *Dev) SetGap(x, y int) error {
	if d.halted {
		return errHalted
	}
	return d.Panel.SetGap(x, y)
}

// Halt releases the reset line then destroys the vendor panel. Errors of
// both steps are returned. The Dev must not be used afterward.
func (d *Dev) Halt() error {
	if d.halted {
		return errHalted
	}
	d.halted = true
	pinErr := d.releaseReset()
	err := d.origHalt()
	if err != nil {
		err = fmt.Errorf("delete MIPI DPI panel: %w", err)
	}
	d.log.Debug("deleted")
	d.io = nil
	d.rst = nil
	d.origInit = nil
	d.origHalt = nil
	d.initCmds = nil
	return common.Wrap(packageName, errors.Join(pinErr, err))
}

var errHalted = common.Errorf(packageName, common.ErrInvalidState, nil, "panel deleted")

var _ Panel = &Dev{}
