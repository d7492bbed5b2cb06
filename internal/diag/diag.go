// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2024 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package diag carries the error-kind taxonomy and diagnostic/debug output
// helpers shared by every entry point. It is the one place that knows how
// to talk to stderr, the systemd journal and the i18n catalog.
package diag

import (
	"fmt"
	"os"

	"github.com/coreos/go-systemd/journal"
	"golang.org/x/xerrors"
)

// ErrorKind classifies a failure per the propagation policy.
type ErrorKind int

const (
	// InvalidInput covers bad identifiers, malformed profiles, relative
	// paths where absolute ones are required, and similar caller errors.
	InvalidInput ErrorKind = iota
	// EnvUnsatisfied covers a hostile or incomplete environment: wrong
	// uid, an ambiguous or missing OS snap, missing required directories.
	EnvUnsatisfied
	// SystemCallFailed covers namespace, mount, chown, cgroup-write and
	// filter-library failures.
	SystemCallFailed
	// ChildHelperFailed covers a non-zero exit or signal death of the
	// device-assignment helper.
	ChildHelperFailed
	// Unsupported covers recognized-but-inapplicable conditions. Only one
	// instance of this kind is ever silently swallowed by a caller: an
	// unknown syscall name in a profile line (see internal/seccomp).
	Unsupported
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case EnvUnsatisfied:
		return "environment unsatisfied"
	case SystemCallFailed:
		return "system call failed"
	case ChildHelperFailed:
		return "child helper failed"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown error kind"
	}
}

// KindError wraps an underlying error with its ErrorKind, so callers can
// recover the kind with xerrors.As without string-matching messages.
type KindError struct {
	Kind ErrorKind
	Err  error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error { return e.Err }

// Errorf builds a KindError the way xerrors.Errorf builds a wrapped error,
// supporting the same "%w" verb.
func Errorf(kind ErrorKind, format string, args ...interface{}) error {
	return &KindError{Kind: kind, Err: xerrors.Errorf(format, args...)}
}

// KindOf extracts the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ke *KindError
	if xerrors.As(err, &ke) {
		return ke.Kind, true
	}
	return 0, false
}

var exit = os.Exit

// G is this package's gettext-style lookup, mirroring snapd's own i18n.G():
// a translation catalog lookup that falls back to the original string when
// no entry is bound for it. This repo carries no locale catalog of its own,
// so it always falls back; the seam exists so a catalog can be wired in
// later without touching every call site.
func G(format string) string {
	return format
}

// Fatalf prints a translated diagnostic to stderr and terminates the
// process with status 1. It mirrors original_source/src/utils.h's die():
// every setup failure is fatal and none of them ever reach exec. Only
// cmd/* entry points call Fatalf; library packages always return errors.
func Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, G(format)+"\n", args...)
	exit(1)
}

// debugEnabled mirrors the teacher's SNAP_CONFINE_DEBUG-gated debug() macro.
func debugEnabled() bool {
	return os.Getenv("SNAP_CONFINE_DEBUG") != ""
}

// Debugf emits a low-priority diagnostic to the systemd journal when
// available, otherwise to stderr when SNAP_CONFINE_DEBUG is set. It is a
// no-op otherwise, matching the original launcher's debug() behavior of
// staying silent outside of debug builds.
func Debugf(format string, args ...interface{}) {
	if journal.Enabled() {
		journal.Print(journal.PriDebug, format, args...)
		return
	}
	if debugEnabled() {
		fmt.Fprintf(os.Stderr, "DEBUG: "+format+"\n", args...)
	}
}
