// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package backlighti2c_test

import (
	"log"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/espanel/backlighti2c"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// The bus is shared with the touch controller; open it, do not own it.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	bl := backlighti2c.New(b, &backlighti2c.Config{
		Addr:          0x45,
		BrightnessCmd: 0x86,
		PowerCmd:      0x85,
		PowerOn:       0x01,
		PowerOff:      0x00,
		MaxBrightness: 255,
		Init: []backlighti2c.Command{
			{Cmd: 0x85, Data: 0x01, Delay: 10 * time.Millisecond},
		},
	}, nil)
	if err := bl.Begin(); err != nil {
		log.Fatal(err)
	}
	defer bl.Halt()
	if err := bl.SetBrightness(80); err != nil {
		log.Fatal(err)
	}
}
