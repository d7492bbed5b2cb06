// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2015-2024 Canonical Ltd
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

// Package devcgroup implements the device-cgroup and hotplug-assigner stage:
// deciding whether an application's MAC override grants it unrestricted
// device access, and if so creating its device cgroup and handing out
// individual device grants through the out-of-process helper.
package devcgroup

import (
	"bytes"

	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

// needle is the exact JSON document whose presence at the head of an
// application's MAC-override marker grants it unrestricted device access.
// The match is whitespace-sensitive: this is the literal shape, not a
// parsed-and-compared JSON document.
const needle = "{\n" +
	" \"write_path\": [\n" +
	"   \"/dev/**\"\n" +
	" ],\n" +
	" \"read_path\": [\n" +
	"   \"/run/udev/data/*\"\n" +
	" ]\n" +
	"}"

var openFn = unix.Open

// OverrideGrantsDeviceAccess reports whether the MAC-override marker at
// overrideFile grants its application unrestricted device access. A
// missing file and a file shorter than the needle both report false: this
// conflation is preserved intentionally, not distinguished to the caller.
func OverrideGrantsDeviceAccess(overrideFile string) (bool, error) {
	fd, err := openFn(overrideFile, unix.O_CLOEXEC|unix.O_NOFOLLOW|unix.O_RDONLY, 0)
	if err != nil {
		return false, nil
	}
	defer unix.Close(fd)

	content := make([]byte, len(needle))
	n, err := unix.Read(fd, content)
	if err != nil {
		return false, diag.Errorf(diag.SystemCallFailed, "cannot read %s: %w", overrideFile, err)
	}
	if n < len(content) {
		return false, nil
	}

	return bytes.Equal(content, []byte(needle)), nil
}
