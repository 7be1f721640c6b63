// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel

import (
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/espanel/lcdcmd"
)

// Panel is the operation table of a display panel, as exposed by the vendor
// MIPI DPI driver and by the decorators in this package.
//
// Halt destroys the panel.
type Panel interface {
	conn.Resource
	Init() error
	Reset() error
	Mirror(x, y bool) error
	SwapXY(swap bool) error
	SetGap(x, y int) error
	InvertColor(invert bool) error
	DisplayOnOff(on bool) error
	Sleep(sleep bool) error
	// DrawBitmap copies pixels into the [x0,x1)x[y0,y1) window.
	DrawBitmap(x0, y0, x1, y1 int, data []byte) error
}

// IO is the command channel to the panel controller.
type IO interface {
	// TxParam sends cmd followed by its parameters.
	TxParam(cmd byte, param []byte) error
}

// DSIBus is an opaque handle on the MIPI-DSI host.
type DSIBus interface {
	String() string
}

// DPIConfig describes the pixel interface handed to the vendor driver.
type DPIConfig struct {
	Clock           physic.Frequency
	BitsPerPixel    int
	Width, Height   int
	NumFrameBuffers int
}

// MIPIConfig groups the DSI specific settings.
type MIPIConfig struct {
	LaneNum int
	DSIBus  DSIBus
	DPI     *DPIConfig
}

// VendorConfig carries the vendor extension of DevConfig.
type VendorConfig struct {
	// InitCmds is the vendor init table. When nil, an empty table is used.
	InitCmds []lcdcmd.InitCmd
	MIPI     MIPIConfig
}

// DevConfig describes the panel.
type DevConfig struct {
	// Reset is the reset line, nil when the panel has none.
	Reset gpio.PinOut
	// ResetActiveHigh is true when the panel is held in reset by a high level.
	ResetActiveHigh bool
	ColorOrder      lcdcmd.ColorOrder
	// BitsPerPixel is 16, 18 or 24.
	BitsPerPixel int
	Vendor       *VendorConfig
}

// DPIPanelFunc creates the vendor MIPI DPI panel.
type DPIPanelFunc func(bus DSIBus, cfg *DPIConfig) (Panel, error)

// Opts holds the settings that depend on the platform rather than the panel.
type Opts struct {
	// NewDPIPanel creates the underlying panel. A nil value means the
	// platform has no MIPI-DSI support.
	NewDPIPanel DPIPanelFunc
	// Logger defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultOpts is used when nil Opts are given. It has no vendor driver, so
// it is only useful once NewDPIPanel is set by the platform.
var DefaultOpts = Opts{}

// Capabilities lists what a panel driver supports.
type Capabilities struct {
	ColorBits    []int
	InvertColor  bool
	MirrorX      bool
	MirrorY      bool
	SwapXY       bool
	DisplayOnOff bool
}

// capabilities is shared by both variants.
var capabilities = Capabilities{
	ColorBits:    []int{16, 18, 24},
	InvertColor:  true,
	MirrorX:      true,
	MirrorY:      true,
	DisplayOnOff: true,
}
