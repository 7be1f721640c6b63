// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel

import (
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/espanel/lcdcmd"
)

type controller interface {
	sendCommand(cmd byte, data []byte)
	wait(time.Duration)
}

// claims reports which of the registers the driver programs on its own are
// set by the table instead. madctl is the value of the last MADCTL entry.
func claims(cmds []lcdcmd.InitCmd) (madctlClaimed, colmodClaimed bool, madctl byte) {
	for _, c := range cmds {
		if !c.Claims() {
			continue
		}
		switch c.Cmd {
		case lcdcmd.MADCTL:
			madctlClaimed = true
			madctl = c.Data[0]
		case lcdcmd.COLMOD:
			colmodClaimed = true
		}
	}
	return
}

// initPanel programs the shadow registers the table does not claim, then
// plays the table in order.
func initPanel(ctrl controller, madctl, colmod byte, cmds []lcdcmd.InitCmd) {
	madctlClaimed, colmodClaimed, _ := claims(cmds)
	if !madctlClaimed {
		ctrl.sendCommand(lcdcmd.MADCTL, []byte{madctl})
	}
	if !colmodClaimed {
		ctrl.sendCommand(lcdcmd.COLMOD, []byte{colmod})
	}
	for _, c := range cmds {
		ctrl.sendCommand(c.Cmd, c.Data)
		if c.Delay > 0 {
			ctrl.wait(c.Delay)
		}
	}
}

// resetPulse drives the reset line active then inactive, holding each level
// for 10ms.
func resetPulse(eh *errorHandler, active gpio.Level) {
	eh.rstOut(active)
	eh.wait(10 * time.Millisecond)
	eh.rstOut(!active)
	eh.wait(10 * time.Millisecond)
}
