// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdcmd

import (
	"testing"
	"time"
)

func TestColorOrder(t *testing.T) {
	for _, tc := range []struct {
		c      ColorOrder
		want   byte
		ok     bool
		string string
	}{
		{RGB, 0, true, "RGB"},
		{BGR, 0x08, true, "BGR"},
		{ColorOrder(7), 0, false, "ColorOrder(7)"},
	} {
		got, ok := tc.c.MADCTL()
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s.MADCTL() = %#x, %t; want %#x, %t", tc.c, got, ok, tc.want, tc.ok)
		}
		if s := tc.c.String(); s != tc.string {
			t.Errorf("String() = %q; want %q", s, tc.string)
		}
	}
}

func TestPixelFormat(t *testing.T) {
	for bpp, want := range map[int]byte{16: 0x55, 18: 0x66, 24: 0x77} {
		got, ok := PixelFormat(bpp)
		if !ok || got != want {
			t.Errorf("PixelFormat(%d) = %#x, %t; want %#x", bpp, got, ok, want)
		}
	}
	for _, bpp := range []int{0, 8, 12, 32} {
		if _, ok := PixelFormat(bpp); ok {
			t.Errorf("PixelFormat(%d) should not be supported", bpp)
		}
	}
}

func TestClaims(t *testing.T) {
	for _, tc := range []struct {
		cmd  InitCmd
		want bool
	}{
		{InitCmd{Cmd: MADCTL, Data: []byte{0x03}}, true},
		{InitCmd{Cmd: COLMOD, Data: []byte{0x77}}, true},
		{InitCmd{Cmd: MADCTL}, false},
		{InitCmd{Cmd: SLPOUT, Delay: 120 * time.Millisecond}, false},
		{InitCmd{Cmd: 0xB0, Data: []byte{0x01}}, false},
	} {
		if got := tc.cmd.Claims(); got != tc.want {
			t.Errorf("%s.Claims() = %t; want %t", tc.cmd, got, tc.want)
		}
	}
}

func TestTotalDelay(t *testing.T) {
	cmds := []InitCmd{
		{Cmd: 0xB0, Delay: 10 * time.Millisecond},
		{Cmd: 0xB1},
		{Cmd: 0xB2, Delay: 20 * time.Millisecond},
	}
	if got := TotalDelay(cmds); got != 30*time.Millisecond {
		t.Errorf("TotalDelay() = %s", got)
	}
	if got := TotalDelay(nil); got != 0 {
		t.Errorf("TotalDelay(nil) = %s", got)
	}
}
