// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel

import (
	"image"

	"github.com/GermanBionicSystems/espanel/common"
)

// Pack converts the r part of img to the byte layout DrawBitmap expects for
// the color depth: RGB565 little endian, RGB666 in the upper 6 bits of each
// byte, or RGB888.
func Pack(img image.Image, r image.Rectangle, bitsPerPixel int) ([]byte, error) {
	r = r.Intersect(img.Bounds())
	var bpp int
	switch bitsPerPixel {
	case 16:
		bpp = 2
	case 18, 24:
		bpp = 3
	default:
		return nil, common.Errorf(packageName, common.ErrUnsupported, nil, "%d bits per pixel", bitsPerPixel)
	}
	out := make([]byte, 0, r.Dx()*r.Dy()*bpp)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			red, green, blue := byte(r16>>8), byte(g16>>8), byte(b16>>8)
			switch bitsPerPixel {
			case 16:
				v := uint16(red>>3)<<11 | uint16(green>>2)<<5 | uint16(blue>>3)
				out = append(out, byte(v), byte(v>>8))
			case 18:
				out = append(out, red&0xfc, green&0xfc, blue&0xfc)
			default:
				out = append(out, red, green, blue)
			}
		}
	}
	return out, nil
}
