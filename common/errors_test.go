// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrap(t *testing.T) {
	if Wrap("pkg", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
	cause := errors.New("boom")
	err := Wrap("pkg", cause)
	if err.Error() != "pkg: boom" {
		t.Errorf("got %q", err)
	}
	if !errors.Is(err, cause) {
		t.Error("lost cause")
	}
	if again := Wrap("pkg", err); again != err {
		t.Errorf("double wrapped: %q", again)
	}
}

func TestErrorf(t *testing.T) {
	cause := errors.New("nack")
	err := Errorf("pkg", ErrTransportFailure, cause, "cmd %#02x", 0x36)
	if !errors.Is(err, ErrTransportFailure) {
		t.Error("kind not matched")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not matched")
	}
	if want := "pkg: transport failure: cmd 0x36: nack"; err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
	err = Errorf("pkg", ErrInvalidArgument, nil, "percent %d", 101)
	if want := "pkg: invalid argument: percent 101"; err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
}

func TestTransport(t *testing.T) {
	if Transport("pkg", nil, "x") != nil {
		t.Error("Transport(nil) should be nil")
	}
	missing := fmt.Errorf("i2c: %w", ErrTransportUnavailable)
	err := Transport("pkg", missing, "probe")
	if !errors.Is(err, ErrTransportUnavailable) || errors.Is(err, ErrTransportFailure) {
		t.Errorf("unexpected classification: %v", err)
	}
	err = Transport("pkg", errors.New("timeout"), "write")
	if !errors.Is(err, ErrTransportFailure) {
		t.Errorf("unexpected classification: %v", err)
	}
}
