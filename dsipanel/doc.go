// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dsipanel decorates a vendor MIPI DPI panel with what a specific
// LCD controller needs on top of the plain pixel interface: reset
// sequencing, an init command table, and the MADCTL shadow used for
// mirroring.
//
// The vendor panel is created by Opts.NewDPIPanel and embedded in Dev.
// Dev overrides Init, Halt, Reset, Mirror, InvertColor, DisplayOnOff and
// Sleep; everything else, drawing included, goes to the vendor panel until
// Halt, after which every operation returns common.ErrInvalidState. Dev
// keeps the vendor Init and Halt and calls them last, so the pixel
// interface is brought up after the init table and torn down after the
// reset line is released.
//
// Two variants exist:
//
//   - NoDSIConf transmits the init table and every panel command over the
//     panel IO.
//   - Simple is for controllers configured by their own firmware. It never
//     transmits: the init table only contributes its delays and the panel
//     commands are accepted and ignored.
//
// Both pulse the reset line the same way: active level for 10ms, then
// inactive level for 10ms.
//
// When the platform has no MIPI-DSI support, Opts.NewDPIPanel is nil and the
// constructors return an error matching common.ErrUnsupported.
package dsipanel
