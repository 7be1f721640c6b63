// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/GermanBionicSystems/espanel/config"
)

func TestTestCard(t *testing.T) {
	img, err := testCard(80, 40, "nodsiconf 80x40")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Fatalf("bounds %v", b)
	}
	// The frame is red, the first bar white, the last black.
	r, g, b, _ := img.At(0, 20).RGBA()
	if r>>8 < 0x80 || g>>8 > 0x40 || b>>8 > 0x40 {
		t.Errorf("edge = %v", img.At(0, 20))
	}
	if c := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA); c.R != 0xff || c.G != 0xff || c.B != 0xff {
		t.Errorf("first bar = %v", c)
	}
	if c := color.NRGBAModel.Convert(img.At(75, 5)).(color.NRGBA); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("last bar = %v", c)
	}
	if _, err := testCard(0, 10, ""); err == nil {
		t.Error("expected error")
	}
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.Panel.Width, cfg.Panel.Height, cfg.Panel.BitsPerPixel = 32, 16, 16
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, cfg, log, true, 0, 8); err != nil {
		t.Fatal(err)
	}
	released := false
	for _, e := range hook.AllEntries() {
		if e.Message == "panel released" {
			released = true
			// SWRESET, MADCTL, COLMOD, SLPOUT and DISPON from the table, then DISPON.
			if n := e.Data["commands"]; n != 6 {
				t.Errorf("commands = %v", n)
			}
		}
	}
	if !released {
		t.Error("panel not released")
	}
}
