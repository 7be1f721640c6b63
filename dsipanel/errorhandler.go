// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dsipanel

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. Once a step fails, every
// following step, waits included, is skipped.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	if err := eh.d.rst.Out(l); err != nil {
		eh.err = fmt.Errorf("reset pin %s: %w", eh.d.rst, err)
	}
}

func (eh *errorHandler) sendCommand(cmd byte, data []byte) {
	if eh.err != nil {
		return
	}
	eh.d.log.WithFields(logrus.Fields{
		"cmd":  fmt.Sprintf("%#02x", cmd),
		"data": fmt.Sprintf("% x", data),
	}).Debug("tx")
	if err := eh.d.io.TxParam(cmd, data); err != nil {
		eh.err = fmt.Errorf("command %#02x: %w", cmd, err)
	}
}

func (eh *errorHandler) wait(t time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.sleep(t)
}

// dryRun is the controller of panels that come up pre-configured: commands
// are only logged, waits are kept so the timing of the table is unchanged.
type dryRun struct {
	*errorHandler
}

func (r dryRun) sendCommand(cmd byte, data []byte) {
	r.d.log.WithField("cmd", fmt.Sprintf("%#02x", cmd)).Debug("skipping command")
}
