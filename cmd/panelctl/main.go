// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// panelctl brings up the backlight and the MIPI-DSI panel described by a
// board file, draws a test card and keeps it on screen until interrupted.
//
// The DPI pixel path is simulated and printed to the terminal. With -sim, I²C
// transactions are recorded instead of sent and no GPIO is touched, so the
// board file can be checked on any machine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/espanel/backlighti2c"
	"github.com/GermanBionicSystems/espanel/config"
	"github.com/GermanBionicSystems/espanel/dsipanel"
	"github.com/GermanBionicSystems/espanel/panelsim"
)

func mainImpl() error {
	cfgPath := flag.String("config", "", "board file (YAML); built-in board when empty")
	writeCfg := flag.String("write-config", "", "write the built-in board to this file and exit")
	brightness := flag.Int("brightness", -1, "backlight percent, overrides the board file")
	sim := flag.Bool("sim", false, "record I²C transactions instead of sending them, ignore the reset pin")
	hold := flag.Duration("hold", 0, "time to keep the test card on; 0 waits for Ctrl-C")
	columns := flag.Int("columns", 64, "width of the terminal rendering")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *writeCfg != "" {
		return config.Save(*writeCfg, config.Default())
	}
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	if *brightness >= 0 {
		cfg.Backlight.Brightness = brightness
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, log, *sim, *hold, *columns)
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, sim bool, hold time.Duration, columns int) (err error) {
	bus, err := openBus(cfg.Backlight.Bus, sim, log)
	if err != nil {
		return err
	}
	defer bus.Close()

	bl := backlighti2c.New(bus, cfg.BacklightConfig(), &backlighti2c.Opts{Logger: log})
	if err := bl.Begin(); err != nil {
		return err
	}
	defer func() {
		if err2 := bl.Halt(); err == nil {
			err = err2
		}
	}()

	dev, io, err := newPanel(cfg, log, sim, columns)
	if err != nil {
		return err
	}
	defer func() {
		if err2 := dev.Halt(); err == nil {
			err = err2
		}
		log.WithField("commands", len(io.Records)).Info("panel released")
	}()

	if err := dev.Reset(); err != nil {
		return err
	}
	if err := dev.Init(); err != nil {
		return err
	}
	if err := dev.DisplayOnOff(true); err != nil {
		return err
	}
	if err := bl.SetBrightness(cfg.StartBrightness()); err != nil {
		return err
	}

	if err := drawTestCard(dev, cfg); err != nil {
		return err
	}
	if s, ok := dev.Panel.(*panelsim.Panel); ok {
		if err := s.Refresh(); err != nil {
			return err
		}
	}

	if hold > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hold)
		defer cancel()
	}
	<-ctx.Done()
	return bl.Off()
}

// openBus returns the bus the backlight is on. In simulation, transactions
// are recorded and logged on close.
func openBus(name string, sim bool, log logrus.FieldLogger) (i2c.BusCloser, error) {
	if sim {
		return &recorder{log: log}, nil
	}
	return i2creg.Open(name)
}

type recorder struct {
	i2ctest.Record
	log logrus.FieldLogger
}

func (r *recorder) Close() error {
	for _, op := range r.Ops {
		r.log.WithFields(logrus.Fields{"addr": fmt.Sprintf("%#02x", op.Addr), "w": fmt.Sprintf("% x", op.W)}).Debug("i2c")
	}
	return nil
}

func newPanel(cfg *config.Config, log *logrus.Logger, sim bool, columns int) (*dsipanel.Dev, *panelsim.IO, error) {
	order, err := cfg.ColorOrder()
	if err != nil {
		return nil, nil, err
	}
	dc := &dsipanel.DevConfig{
		ResetActiveHigh: cfg.Panel.ResetActiveHigh,
		ColorOrder:      order,
		BitsPerPixel:    cfg.Panel.BitsPerPixel,
		Vendor: &dsipanel.VendorConfig{
			InitCmds: cfg.PanelInitCmds(),
			MIPI: dsipanel.MIPIConfig{
				LaneNum: cfg.Panel.Lanes,
				DSIBus:  &panelsim.Bus{Name: cfg.Panel.DSIBus},
				DPI: &dsipanel.DPIConfig{
					Clock:           cfg.Clock(),
					BitsPerPixel:    cfg.Panel.BitsPerPixel,
					Width:           cfg.Panel.Width,
					Height:          cfg.Panel.Height,
					NumFrameBuffers: 1,
				},
			},
		},
	}
	if cfg.Panel.ResetPin != "" && !sim {
		p := gpioreg.ByName(cfg.Panel.ResetPin)
		if p == nil {
			return nil, nil, fmt.Errorf("reset pin %q not found", cfg.Panel.ResetPin)
		}
		dc.Reset = p
	}
	io := &panelsim.IO{}
	opts := &dsipanel.Opts{
		NewDPIPanel: panelsim.NewDPIPanel(&panelsim.Opts{Columns: columns}),
		Logger:      log,
	}
	var dev *dsipanel.Dev
	if cfg.Panel.Variant == "simple" {
		dev, err = dsipanel.NewSimple(io, dc, opts)
	} else {
		dev, err = dsipanel.NewNoDSIConf(io, dc, opts)
	}
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"panel":        dev.String(),
		"reset_active": gpio.Level(cfg.Panel.ResetActiveHigh),
		"capabilities": fmt.Sprintf("%+v", dev.Capabilities()),
	}).Info("panel created")
	return dev, io, nil
}

func drawTestCard(dev *dsipanel.Dev, cfg *config.Config) error {
	w, h := cfg.Panel.Width, cfg.Panel.Height
	img, err := testCard(w, h, fmt.Sprintf("%s %dx%d %dbpp", cfg.Panel.Variant, w, h, cfg.Panel.BitsPerPixel))
	if err != nil {
		return err
	}
	data, err := dsipanel.Pack(img, img.Bounds(), cfg.Panel.BitsPerPixel)
	if err != nil {
		return err
	}
	return dev.DrawBitmap(0, 0, w, h, data)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "panelctl: %s.\n", err)
		os.Exit(1)
	}
}
