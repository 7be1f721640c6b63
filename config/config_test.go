// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/espanel/backlighti2c"
	"github.com/GermanBionicSystems/espanel/common"
	"github.com/GermanBionicSystems/espanel/lcdcmd"
)

const board = `
backlight:
  bus: "I2C1"
  addr: 0x45
  freq_khz: 400
  brightness_cmd: 0x86
  power_cmd: 0x85
  power_on: 0x01
  power_off: 0x00
  brightness: 0
  init:
    - {cmd: 0x85, data: 0x01, delay_ms: 10}
    - {cmd: 0x86, data: 0xff}
panel:
  variant: Simple
  reset_pin: GPIO27
  color_order: BGR
  bits_per_pixel: 16
  width: 480
  height: 800
  clock_mhz: 30
  init:
    - {cmd: 0x36, data: [0x08]}
    - {cmd: 0x11, delay_ms: 120}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(board))
	if err != nil {
		t.Fatal(err)
	}
	if c.Panel.Variant != "simple" || c.Panel.Lanes != 2 || c.Panel.DSIBus != "dsi0" {
		t.Errorf("not normalized: %+v", c.Panel)
	}
	if got := c.StartBrightness(); got != 0 {
		t.Errorf("StartBrightness() = %d", got)
	}
	if o, err := c.ColorOrder(); err != nil || o != lcdcmd.BGR {
		t.Errorf("ColorOrder() = %v, %v", o, err)
	}
	if c.Clock() != 30*physic.MegaHertz {
		t.Errorf("Clock() = %s", c.Clock())
	}

	wantBL := &backlighti2c.Config{
		Addr:          0x45,
		Freq:          400 * physic.KiloHertz,
		BrightnessCmd: 0x86,
		PowerCmd:      0x85,
		PowerOn:       0x01,
		PowerOff:      0x00,
		MaxBrightness: 255,
		Init: []backlighti2c.Command{
			{Cmd: 0x85, Data: 0x01, Delay: 10 * time.Millisecond},
			{Cmd: 0x86, Data: 0xff},
		},
	}
	if diff := cmp.Diff(c.BacklightConfig(), wantBL); diff != "" {
		t.Errorf("BacklightConfig() difference (-got +want):\n%s", diff)
	}

	wantCmds := []lcdcmd.InitCmd{
		{Cmd: lcdcmd.MADCTL, Data: []byte{0x08}},
		{Cmd: lcdcmd.SLPOUT, Delay: 120 * time.Millisecond},
	}
	if diff := cmp.Diff(c.PanelInitCmds(), wantCmds); diff != "" {
		t.Errorf("PanelInitCmds() difference (-got +want):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("backlight: {addr: 0x30, init: [{cmd: 1, data: 2}]}\npanel: {width: 10, height: 10}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.StartBrightness() != 100 || c.Backlight.MaxBrightness != 255 {
		t.Errorf("backlight defaults: %+v", c.Backlight)
	}
	if c.Panel.Variant != "nodsiconf" || c.Panel.ColorOrder != "rgb" || c.Panel.BitsPerPixel != 24 {
		t.Errorf("panel defaults: %+v", c.Panel)
	}
	if c.PanelInitCmds() != nil {
		t.Error("expected nil init table")
	}
}

func TestValidate(t *testing.T) {
	data := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"addr", func(c *Config) { c.Backlight.Addr = 0x80 }},
		{"power_on", func(c *Config) { c.Backlight.PowerOn = 0x100 }},
		{"brightness", func(c *Config) { v := 101; c.Backlight.Brightness = &v }},
		{"backlight init", func(c *Config) { c.Backlight.Init = nil }},
		{"backlight init data", func(c *Config) { c.Backlight.Init[0].Data = -1 }},
		{"variant", func(c *Config) { c.Panel.Variant = "rgb" }},
		{"color order", func(c *Config) { c.Panel.ColorOrder = "grb" }},
		{"bpp", func(c *Config) { c.Panel.BitsPerPixel = 32 }},
		{"size", func(c *Config) { c.Panel.Width = 0 }},
		{"panel init", func(c *Config) { c.Panel.Init[0].Data = []int{256} }},
		{"panel delay", func(c *Config) { c.Panel.Init[0].DelayMS = -1 }},
	}
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			c := Default()
			line.mutate(c)
			if err := c.Validate(); !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte("backlight: [")); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards", "panel.yaml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, Default()); diff != "" {
		t.Errorf("Load() difference (-got +want):\n%s", diff)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error")
	}
	if _, err := Load(""); err == nil {
		t.Error("expected error")
	}
}
