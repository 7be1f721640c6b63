// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package espanel is a container for display panel and backlight drivers.
//
// backlighti2c drives a backlight controller over I²C. dsipanel decorates a
// vendor MIPI DPI panel with the command sequencing of the controller
// behind it. panelsim simulates the DSI host so both can be brought up
// without the hardware, and cmd/panelctl ties them together from a YAML
// board file.
package espanel
