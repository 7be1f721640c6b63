// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the error kinds shared by the panel and backlight
// drivers.
//
// Every driver returns errors that wrap exactly one of the sentinels below,
// so callers can branch with errors.Is without knowing which driver failed.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned for nil or out of range inputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is returned when an operation needs a prior Begin or
	// Init that did not happen.
	ErrInvalidState = errors.New("invalid state")
	// ErrTransportUnavailable means a dependency, usually the bus driver,
	// was never brought up. It is not recoverable without outside help.
	ErrTransportUnavailable = errors.New("transport unavailable")
	// ErrTransportFailure means a single transaction failed. It may be
	// transient.
	ErrTransportFailure = errors.New("transport failure")
	// ErrUnsupported is returned for configuration values outside the
	// recognized set, or for a capability the platform lacks.
	ErrUnsupported = errors.New("unsupported")
)

// Wrap prefixes err with the package name unless it already carries it.
func Wrap(pkg string, err error) error {
	if err == nil || strings.HasPrefix(err.Error(), pkg+":") {
		return err
	}
	return fmt.Errorf("%s: %w", pkg, err)
}

// Errorf returns an error of the given kind. When cause is not nil it is
// wrapped as well, so errors.Is matches both kind and cause.
func Errorf(pkg string, kind, cause error, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	if cause == nil {
		return fmt.Errorf("%s: %w: %s", pkg, kind, msg)
	}
	return fmt.Errorf("%s: %w: %s: %w", pkg, kind, msg, cause)
}

// Transport classifies a bus error: errors already carrying
// ErrTransportUnavailable are kept as such, everything else becomes
// ErrTransportFailure.
func Transport(pkg string, err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransportUnavailable) {
		return Errorf(pkg, ErrTransportUnavailable, err, format, a...)
	}
	return Errorf(pkg, ErrTransportFailure, err, format, a...)
}
