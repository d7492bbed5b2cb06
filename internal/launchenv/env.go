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

// Package launchenv gathers every environment variable the launcher
// consumes behind one Config value built once at startup, per the Design
// Notes' guidance to avoid ad-hoc os.Getenv globals scattered through the
// codebase.
package launchenv

import "os"

// Config is the process environment the launcher was started with,
// snapshotted once so that setup stages never race each other's view of it.
type Config struct {
	// UserData is $SNAP_USER_DATA, falling back to the deprecated
	// $SNAP_APP_USER_DATA_PATH. Empty when neither is set.
	UserData string
	// NoRootOK lifts the "must run as root" check (§6, test-only escape
	// hatch).
	NoRootOK bool
	// InsideTests downgrades a MAC-transition-request failure from fatal
	// to a warning (§6, test-only).
	InsideTests bool
	// SeccompProfileDirOverride, when non-empty, replaces
	// dirs.SeccompProfilesDir. Only honored by the caller when the
	// process is not running privileged-by-setuid (§6).
	SeccompProfileDirOverride string
}

// FromEnviron builds a Config from the process environment, mirroring
// os.Getenv semantics exactly (unset and empty-string are indistinguishable,
// as in the C original).
func FromEnviron() Config {
	userData := os.Getenv("SNAP_USER_DATA")
	if userData == "" {
		userData = os.Getenv("SNAP_APP_USER_DATA_PATH")
	}
	return Config{
		UserData:                  userData,
		NoRootOK:                  os.Getenv("UBUNTU_CORE_LAUNCHER_NO_ROOT") != "",
		InsideTests:               os.Getenv("SNAPPY_LAUNCHER_INSIDE_TESTS") != "",
		SeccompProfileDirOverride: os.Getenv("SNAPPY_LAUNCHER_SECCOMP_PROFILE_DIR"),
	}
}
