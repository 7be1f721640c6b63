// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// bars are the SMPTE-like color bars of the test card.
var bars = [][3]float64{
	{1, 1, 1},
	{1, 1, 0},
	{0, 1, 1},
	{0, 1, 0},
	{1, 0, 1},
	{1, 0, 0},
	{0, 0, 1},
	{0, 0, 0},
}

// testCard draws color bars, a frame marking the panel edges and a label
// with the panel description.
func testCard(w, h int, label string) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", w, h)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	bw := float64(w) / float64(len(bars))
	for i, c := range bars {
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(float64(i)*bw, 0, bw+1, float64(h)*2/3)
		dc.Fill()
	}
	// Gray ramp along the bottom third.
	for x := 0; x < w; x++ {
		v := float64(x) / float64(w)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(x), float64(h)*2/3, 1, float64(h)/3)
		dc.Fill()
	}

	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(w-2), float64(h-2))
	dc.Stroke()

	size := float64(h) / 16
	if size < 8 {
		size = 8
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
	tw, th := dc.MeasureString(label)
	padding := size / 2
	x := (float64(w) - tw) / 2
	y := float64(h) * 2 / 3
	dc.SetRGB(0, 0, 0)
	dc.DrawRoundedRectangle(x-padding, y-th-padding, tw+2*padding, th+2*padding, padding)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, x, y)
	return dc.Image(), nil
}
