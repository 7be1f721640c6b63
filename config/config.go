// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the board description used by panelctl: the I2C
// backlight controller and the MIPI-DSI panel with their init tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/espanel/backlighti2c"
	"github.com/GermanBionicSystems/espanel/common"
	"github.com/GermanBionicSystems/espanel/lcdcmd"
)

const packageName = "config"

// BacklightCommand is one entry of the backlight init table.
type BacklightCommand struct {
	Cmd     int `yaml:"cmd"`
	Data    int `yaml:"data"`
	DelayMS int `yaml:"delay_ms,omitempty"`
}

// Backlight describes the I2C backlight controller.
type Backlight struct {
	// Bus is the i2creg name of the bus. Empty selects the first bus.
	Bus  string `yaml:"bus"`
	Addr int    `yaml:"addr"`
	// FreqKHz is only logged, the bus is configured by its owner.
	FreqKHz       int `yaml:"freq_khz,omitempty"`
	BrightnessCmd int `yaml:"brightness_cmd"`
	PowerCmd      int `yaml:"power_cmd"`
	PowerOn       int `yaml:"power_on"`
	PowerOff      int `yaml:"power_off"`
	MaxBrightness int `yaml:"max_brightness"`
	// Brightness is the percent applied at startup. Defaults to 100.
	Brightness *int               `yaml:"brightness,omitempty"`
	Init       []BacklightCommand `yaml:"init"`
}

// PanelCommand is one entry of the panel init table.
type PanelCommand struct {
	Cmd     int   `yaml:"cmd"`
	Data    []int `yaml:"data,flow,omitempty"`
	DelayMS int   `yaml:"delay_ms,omitempty"`
}

// Panel describes the MIPI-DSI panel.
type Panel struct {
	// Variant is "nodsiconf" or "simple".
	Variant string `yaml:"variant"`
	// ResetPin is the gpioreg name of the reset line. Empty when the panel
	// has none.
	ResetPin        string `yaml:"reset_pin,omitempty"`
	ResetActiveHigh bool   `yaml:"reset_active_high"`
	// ColorOrder is "rgb" or "bgr".
	ColorOrder   string         `yaml:"color_order"`
	BitsPerPixel int            `yaml:"bits_per_pixel"`
	DSIBus       string         `yaml:"dsi_bus"`
	Lanes        int            `yaml:"lanes"`
	ClockMHz     int            `yaml:"clock_mhz"`
	Width        int            `yaml:"width"`
	Height       int            `yaml:"height"`
	Init         []PanelCommand `yaml:"init"`
}

// Config is the board configuration.
type Config struct {
	Backlight Backlight `yaml:"backlight"`
	Panel     Panel     `yaml:"panel"`
}

// Default returns the configuration of the reference board.
func Default() *Config {
	return &Config{
		Backlight: Backlight{
			Addr:          0x45,
			BrightnessCmd: 0x86,
			PowerCmd:      0x85,
			PowerOn:       0x01,
			PowerOff:      0x00,
			MaxBrightness: 255,
			Brightness:    intPtr(100),
			Init: []BacklightCommand{
				{Cmd: 0x85, Data: 0x01, DelayMS: 10},
			},
		},
		Panel: Panel{
			Variant:      "nodsiconf",
			ColorOrder:   "rgb",
			BitsPerPixel: 24,
			DSIBus:       "dsi0",
			Lanes:        2,
			ClockMHz:     60,
			Width:        720,
			Height:       1280,
			Init: []PanelCommand{
				{Cmd: int(lcdcmd.SLPOUT), DelayMS: 120},
				{Cmd: int(lcdcmd.DISPON), DelayMS: 20},
			},
		},
	}
}

// Normalize fills in missing values so that partial files still describe a
// usable board.
func (c *Config) Normalize() {
	if c.Backlight.MaxBrightness <= 0 {
		c.Backlight.MaxBrightness = 255
	}
	if c.Backlight.Brightness == nil {
		c.Backlight.Brightness = intPtr(100)
	}
	c.Panel.Variant = strings.ToLower(c.Panel.Variant)
	if c.Panel.Variant == "" {
		c.Panel.Variant = "nodsiconf"
	}
	c.Panel.ColorOrder = strings.ToLower(c.Panel.ColorOrder)
	if c.Panel.ColorOrder == "" {
		c.Panel.ColorOrder = "rgb"
	}
	if c.Panel.BitsPerPixel == 0 {
		c.Panel.BitsPerPixel = 24
	}
	if c.Panel.DSIBus == "" {
		c.Panel.DSIBus = "dsi0"
	}
	if c.Panel.Lanes <= 0 {
		c.Panel.Lanes = 2
	}
}

// Validate reports the first value that does not fit the hardware.
func (c *Config) Validate() error {
	b := &c.Backlight
	if b.Addr <= 0 || b.Addr > 0x7f {
		return invalid("backlight.addr %#x out of range", b.Addr)
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"brightness_cmd", b.BrightnessCmd},
		{"power_cmd", b.PowerCmd},
		{"power_on", b.PowerOn},
		{"power_off", b.PowerOff},
		{"max_brightness", b.MaxBrightness},
	} {
		if !isByte(f.v) {
			return invalid("backlight.%s %d does not fit a byte", f.name, f.v)
		}
	}
	if b.Brightness != nil && (*b.Brightness < 0 || *b.Brightness > 100) {
		return invalid("backlight.brightness %d%% out of range", *b.Brightness)
	}
	if len(b.Init) == 0 {
		return invalid("backlight.init is empty")
	}
	for i, cmd := range b.Init {
		if !isByte(cmd.Cmd) || !isByte(cmd.Data) || cmd.DelayMS < 0 {
			return invalid("backlight.init[%d] %+v", i, cmd)
		}
	}

	p := &c.Panel
	switch p.Variant {
	case "nodsiconf", "simple":
	default:
		return invalid("panel.variant %q", p.Variant)
	}
	if _, err := p.colorOrder(); err != nil {
		return err
	}
	if _, ok := lcdcmd.PixelFormat(p.BitsPerPixel); !ok {
		return invalid("panel.bits_per_pixel %d", p.BitsPerPixel)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return invalid("panel size %dx%d", p.Width, p.Height)
	}
	if p.ClockMHz < 0 {
		return invalid("panel.clock_mhz %d", p.ClockMHz)
	}
	for i, cmd := range p.Init {
		if !isByte(cmd.Cmd) || cmd.DelayMS < 0 {
			return invalid("panel.init[%d] %+v", i, cmd)
		}
		for _, d := range cmd.Data {
			if !isByte(d) {
				return invalid("panel.init[%d] data %d does not fit a byte", i, d)
			}
		}
	}
	return nil
}

// StartBrightness returns the percent to apply once the backlight is up.
func (c *Config) StartBrightness() int {
	if c.Backlight.Brightness == nil {
		return 100
	}
	return *c.Backlight.Brightness
}

// BacklightConfig converts the backlight section. Call Validate first.
func (c *Config) BacklightConfig() *backlighti2c.Config {
	b := &c.Backlight
	out := &backlighti2c.Config{
		Addr:          uint16(b.Addr),
		Freq:          physic.Frequency(b.FreqKHz) * physic.KiloHertz,
		BrightnessCmd: byte(b.BrightnessCmd),
		PowerCmd:      byte(b.PowerCmd),
		PowerOn:       byte(b.PowerOn),
		PowerOff:      byte(b.PowerOff),
		MaxBrightness: b.MaxBrightness,
		Init:          make([]backlighti2c.Command, 0, len(b.Init)),
	}
	for _, cmd := range b.Init {
		out.Init = append(out.Init, backlighti2c.Command{
			Cmd:   byte(cmd.Cmd),
			Data:  byte(cmd.Data),
			Delay: time.Duration(cmd.DelayMS) * time.Millisecond,
		})
	}
	return out
}

// PanelInitCmds converts the panel init table. It returns nil when the file
// has none, so the driver falls back to its default table.
func (c *Config) PanelInitCmds() []lcdcmd.InitCmd {
	if len(c.Panel.Init) == 0 {
		return nil
	}
	out := make([]lcdcmd.InitCmd, 0, len(c.Panel.Init))
	for _, cmd := range c.Panel.Init {
		var data []byte
		if len(cmd.Data) != 0 {
			data = make([]byte, len(cmd.Data))
			for i, d := range cmd.Data {
				data[i] = byte(d)
			}
		}
		out = append(out, lcdcmd.InitCmd{
			Cmd:   byte(cmd.Cmd),
			Data:  data,
			Delay: time.Duration(cmd.DelayMS) * time.Millisecond,
		})
	}
	return out
}

// ColorOrder returns the parsed panel color order.
func (c *Config) ColorOrder() (lcdcmd.ColorOrder, error) {
	return c.Panel.colorOrder()
}

// Clock returns the DPI pixel clock.
func (c *Config) Clock() physic.Frequency {
	return physic.Frequency(c.Panel.ClockMHz) * physic.MegaHertz
}

func (p *Panel) colorOrder() (lcdcmd.ColorOrder, error) {
	switch p.ColorOrder {
	case "rgb":
		return lcdcmd.RGB, nil
	case "bgr":
		return lcdcmd.BGR, nil
	}
	return 0, invalid("panel.color_order %q", p.ColorOrder)
}

// Parse decodes, normalizes and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, common.Errorf(packageName, common.ErrInvalidArgument, err, "decode")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the YAML file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Save writes cfg to path, through a temporary file in the same directory
// renamed in place.
func Save(path string, cfg *Config) error {
	if path == "" || cfg == nil {
		return errors.New("config: empty path or nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".panelctl-*.yaml")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func invalid(format string, a ...any) error {
	return common.Errorf(packageName, common.ErrInvalidArgument, nil, format, a...)
}

func intPtr(v int) *int {
	return &v
}

func isByte(v int) bool {
	return v >= 0 && v <= 0xff
}
