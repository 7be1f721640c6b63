// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backlighti2c drives a display backlight IC that is controlled by
// plain two byte I²C register writes: one register for brightness, one for
// power, and a device specific init sequence played at startup.
//
// The I²C bus is owned by another component (usually the touch controller
// driver). This package never opens nor closes it.
//
// Implements periph.io/x/conn/v3/display.DisplayBacklight.
package backlighti2c

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/espanel/common"
)

const packageName = "backlighti2c"

const (
	// The probe only detects a missing bus driver. Address 0 is not
	// expected to answer.
	probeAddr    uint16 = 0x00
	probeTimeout        = 10 * time.Millisecond
	cmdTimeout          = 100 * time.Millisecond
)

// TimeoutBus is implemented by buses that can bound a single transaction.
// Buses that only implement i2c.Bus use their own timeout.
type TimeoutBus interface {
	i2c.Bus
	TxTimeout(addr uint16, w, r []byte, timeout time.Duration) error
}

// Command is one step of the init sequence: a register, its value, and how
// long to wait before the next step.
type Command struct {
	Cmd   byte
	Data  byte
	Delay time.Duration
}

// Config describes the backlight IC.
type Config struct {
	// Addr is the 7 bit I²C address of the IC.
	Addr uint16

	// Port, SDA, SCL and Freq describe the bus the IC sits on. They are
	// informational only: the bus is set up by its owner.
	Port int
	SDA  int
	SCL  int
	Freq physic.Frequency

	BrightnessCmd byte
	PowerCmd      byte
	PowerOn       byte
	PowerOff      byte
	// MaxBrightness is the value written for 100%.
	MaxBrightness int

	// Init is played in order by Begin. It must not be empty.
	Init []Command
}

func (c *Config) clone() Config {
	out := *c
	out.Init = append([]Command(nil), c.Init...)
	return out
}

// Opts holds the optional settings.
type Opts struct {
	// Logger receives lifecycle and transaction logs. Defaults to
	// logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// DefaultOpts is used when New is called with nil Opts.
var DefaultOpts = Opts{}

// Dev is a backlight controlled over I²C.
//
// Dev is not safe for concurrent use.
type Dev struct {
	bus i2c.Bus
	cfg *Config
	log logrus.FieldLogger

	// Snapshot taken by Begin, dropped by Halt.
	active      Config
	initialized bool
	brightness  int

	sleep func(time.Duration)
}

// New returns a backlight on bus described by cfg. Nothing is sent until
// Begin is called.
func New(bus i2c.Bus, cfg *Config, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	l := opts.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Dev{
		bus:   bus,
		cfg:   cfg,
		log:   l.WithField("driver", packageName),
		sleep: time.Sleep,
	}
}

// Begin probes the bus, then plays the init sequence.
//
// It is a no-op when the device is already initialized. If a command of the
// sequence fails, the remaining ones are not sent and the device stays
// uninitialized; call Begin again to restart from the first command.
func (d *Dev) Begin() error {
	if d.initialized {
		d.log.Warn("already initialized")
		return nil
	}
	if d.cfg == nil {
		return common.Errorf(packageName, common.ErrInvalidArgument, nil, "nil config")
	}
	if len(d.cfg.Init) == 0 {
		return common.Errorf(packageName, common.ErrInvalidArgument, nil, "empty init sequence")
	}
	if d.cfg.MaxBrightness < 0 || d.cfg.MaxBrightness > 0xff {
		return common.Errorf(packageName, common.ErrInvalidArgument, nil, "max brightness %d does not fit a byte", d.cfg.MaxBrightness)
	}
	if d.bus == nil {
		return common.Errorf(packageName, common.ErrTransportUnavailable, nil, "nil bus")
	}
	if err := d.tx(probeAddr, []byte{0x00}, probeTimeout); err != nil {
		if errors.Is(err, common.ErrTransportUnavailable) {
			return common.Errorf(packageName, common.ErrTransportUnavailable, err, "no I²C driver on %s; it must be brought up by its owner first", d.bus)
		}
		d.log.WithError(err).Debug("probe error ignored")
	}

	d.active = d.cfg.clone()
	d.log.WithFields(logrus.Fields{
		"bus":            d.bus.String(),
		"addr":           fmt.Sprintf("%#02x", d.active.Addr),
		"sda":            d.active.SDA,
		"scl":            d.active.SCL,
		"freq":           d.active.Freq.String(),
		"brightness_cmd": fmt.Sprintf("%#02x", d.active.BrightnessCmd),
		"power_cmd":      fmt.Sprintf("%#02x", d.active.PowerCmd),
		"max_brightness": d.active.MaxBrightness,
	}).Info("configured")

	if err := d.playInit(); err != nil {
		return err
	}
	d.initialized = true
	d.log.Info("initialized")
	return nil
}

func (d *Dev) playInit() error {
	n := len(d.active.Init)
	for i, c := range d.active.Init {
		l := d.log.WithFields(logrus.Fields{
			"step":  fmt.Sprintf("%d/%d", i+1, n),
			"cmd":   fmt.Sprintf("%#02x", c.Cmd),
			"data":  fmt.Sprintf("%#02x", c.Data),
			"delay": c.Delay,
		})
		l.Debug("init command")
		if err := d.tx(d.active.Addr, []byte{c.Cmd, c.Data}, cmdTimeout); err != nil {
			return common.Transport(packageName, err, "init command %d (%#02x)", i, c.Cmd)
		}
		if c.Delay > 0 {
			d.sleep(c.Delay)
		}
	}
	return nil
}

// Halt forgets the configuration. It leaves the bus and the IC untouched,
// since other devices may share the bus. Implements conn.Resource.
func (d *Dev) Halt() error {
	if !d.initialized {
		return nil
	}
	d.initialized = false
	d.active = Config{}
	d.log.Info("deinitialized, bus left intact")
	return nil
}

// SetBrightness sets the brightness in percent, 0 to 100. The value written
// is percent*MaxBrightness/100, truncated.
func (d *Dev) SetBrightness(percent int) error {
	if !d.initialized {
		return common.Errorf(packageName, common.ErrInvalidState, nil, "not initialized")
	}
	if percent < 0 || percent > 100 {
		return common.Errorf(packageName, common.ErrInvalidArgument, nil, "brightness %d%% out of range", percent)
	}
	v := percent * d.active.MaxBrightness / 100
	d.log.WithFields(logrus.Fields{"percent": percent, "value": v}).Debug("brightness")
	if err := d.tx(d.active.Addr, []byte{d.active.BrightnessCmd, byte(v)}, cmdTimeout); err != nil {
		return common.Transport(packageName, err, "set brightness")
	}
	d.brightness = percent
	return nil
}

// SetPower writes the power on or power off value.
func (d *Dev) SetPower(on bool) error {
	if !d.initialized {
		return common.Errorf(packageName, common.ErrInvalidState, nil, "not initialized")
	}
	v, pct := d.active.PowerOff, 0
	if on {
		v, pct = d.active.PowerOn, 100
	}
	d.log.WithFields(logrus.Fields{"on": on, "value": fmt.Sprintf("%#02x", v)}).Debug("power")
	if err := d.tx(d.active.Addr, []byte{d.active.PowerCmd, v}, cmdTimeout); err != nil {
		return common.Transport(packageName, err, "set power")
	}
	d.brightness = pct
	return nil
}

// On turns the backlight on.
func (d *Dev) On() error {
	return d.SetPower(true)
}

// Off turns the backlight off.
func (d *Dev) Off() error {
	return d.SetPower(false)
}

// Backlight sets the brightness from a 0 to 255 intensity. Implements
// display.DisplayBacklight.
func (d *Dev) Backlight(intensity display.Intensity) error {
	pct := int(intensity) * 100 / 0xff
	if pct > 100 {
		pct = 100
	} else if pct < 0 {
		pct = 0
	}
	return d.SetBrightness(pct)
}

// Brightness returns the last brightness applied, in percent. On counts as
// 100 and Off as 0.
func (d *Dev) Brightness() int {
	return d.brightness
}

// Initialized reports whether Begin succeeded and Halt was not called since.
func (d *Dev) Initialized() bool {
	return d.initialized
}

func (d *Dev) String() string {
	if d.cfg == nil {
		return fmt.Sprintf("BacklightI2C{%v}", d.bus)
	}
	return fmt.Sprintf("BacklightI2C{%v, %#02x}", d.bus, d.cfg.Addr)
}

func (d *Dev) tx(addr uint16, w []byte, timeout time.Duration) error {
	if tb, ok := d.bus.(TimeoutBus); ok {
		return tb.TxTimeout(addr, w, nil, timeout)
	}
	return d.bus.Tx(addr, w, nil)
}

var _ conn.Resource = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ fmt.Stringer = &Dev{}
