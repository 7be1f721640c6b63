// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel_test

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/espanel/dsipanel"
	"github.com/GermanBionicSystems/espanel/lcdcmd"
	"github.com/GermanBionicSystems/espanel/panelsim"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	cfg := &dsipanel.DevConfig{
		Reset:        gpioreg.ByName("GPIO27"),
		ColorOrder:   lcdcmd.RGB,
		BitsPerPixel: 16,
		Vendor: &dsipanel.VendorConfig{
			InitCmds: []lcdcmd.InitCmd{
				{Cmd: lcdcmd.SLPOUT, Delay: 120 * time.Millisecond},
				{Cmd: lcdcmd.DISPON},
			},
			MIPI: dsipanel.MIPIConfig{
				LaneNum: 2,
				DSIBus:  &panelsim.Bus{Name: "dsi0"},
				DPI:     &dsipanel.DPIConfig{BitsPerPixel: 16, Width: 320, Height: 240},
			},
		},
	}
	dev, err := dsipanel.NewNoDSIConf(&panelsim.IO{}, cfg, &dsipanel.Opts{NewDPIPanel: panelsim.NewDPIPanel(nil)})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()
	if err := dev.Reset(); err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 320, 240))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{0x00, 0x80, 0xff, 0xff}}, image.Point{}, draw.Src)
	data, err := dsipanel.Pack(img, img.Bounds(), 16)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.DrawBitmap(0, 0, 320, 240, data); err != nil {
		log.Fatal(err)
	}
	fmt.Println(dev)
}
