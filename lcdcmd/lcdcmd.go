// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdcmd holds the command table model shared by the LCD panel
// drivers: vendor init commands, the MIPI DCS command set they refer to and
// the register encodings for orientation and pixel format.
package lcdcmd

import (
	"fmt"
	"time"
)

// MIPI DCS commands.
const (
	SWRESET byte = 0x01
	SLPIN   byte = 0x10
	SLPOUT  byte = 0x11
	INVOFF  byte = 0x20
	INVON   byte = 0x21
	DISPOFF byte = 0x28
	DISPON  byte = 0x29
	MADCTL  byte = 0x36
	COLMOD  byte = 0x3A
)

// MADCTL bits.
const (
	// MADCTLBGR selects BGR element order.
	MADCTLBGR byte = 1 << 3
	// MADCTLMirrorX is the gate scan direction bit used for X mirroring.
	MADCTLMirrorX byte = 1 << 0
	// MADCTLMirrorY is the source scan direction bit used for Y mirroring.
	MADCTLMirrorY byte = 1 << 1
)

// ColorOrder is the order of the color elements in a pixel.
type ColorOrder uint8

const (
	RGB ColorOrder = iota
	BGR
)

func (c ColorOrder) String() string {
	switch c {
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	default:
		return fmt.Sprintf("ColorOrder(%d)", uint8(c))
	}
}

// MADCTL returns the base orientation register value for the color order.
func (c ColorOrder) MADCTL() (byte, bool) {
	switch c {
	case RGB:
		return 0, true
	case BGR:
		return MADCTLBGR, true
	default:
		return 0, false
	}
}

// PixelFormat returns the COLMOD value for a color depth. Only 16 (RGB565),
// 18 (RGB666) and 24 (RGB888) bits per pixel are recognized.
func PixelFormat(bitsPerPixel int) (byte, bool) {
	switch bitsPerPixel {
	case 16:
		return 0x55, true
	case 18:
		return 0x66, true
	case 24:
		return 0x77, true
	default:
		return 0, false
	}
}

// InitCmd is one entry of a vendor initialization table.
type InitCmd struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

func (c InitCmd) String() string {
	return fmt.Sprintf("{%#02x % x %s}", c.Cmd, c.Data, c.Delay)
}

// Claims reports whether the entry sets a register that a panel driver
// otherwise programs on its own, namely MADCTL or COLMOD. Only entries that
// carry data count.
func (c InitCmd) Claims() bool {
	return len(c.Data) > 0 && (c.Cmd == MADCTL || c.Cmd == COLMOD)
}

// TotalDelay returns the sum of the delays in the table.
func TotalDelay(cmds []InitCmd) time.Duration {
	var d time.Duration
	for _, c := range cmds {
		d += c.Delay
	}
	return d
}
