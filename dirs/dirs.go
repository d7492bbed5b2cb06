// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2016-2024 Canonical Ltd
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

// Package dirs centralizes every filesystem path the launcher touches so
// that tests can redirect them under a scratch root instead of the real
// "/".
package dirs

import (
	"fmt"
	"path/filepath"
	"strings"
)

var rootDir = "/"

// Well-known fixed locations, re-derived from rootDir on every SetRootDir.
var (
	DpkgStatusFile        string
	OSSnapGlob            string
	SeccompProfilesDir    string
	DeviceCgroupRoot      string
	MACOverrideGlobFormat string
	DevPtmx               string
	DevPts                string
	UdevDataDir           string
	SysDevBlockDir        string
	SysDevCharDir         string
	SnappyAppDevHelper    string
)

// StaticDeviceSyspaths lists the syspaths always assigned alongside whatever
// the hotplug enumeration yields, re-derived from rootDir on every
// SetRootDir.
var StaticDeviceSyspaths []string

func init() {
	SetRootDir("/")
}

// SetRootDir reconfigures every path below this package to live under dir,
// and is the seam tests use to avoid touching the real root filesystem.
// Passing "" resets to "/".
func SetRootDir(dir string) {
	if dir == "" {
		dir = "/"
	}
	rootDir = filepath.Clean(dir)

	DpkgStatusFile = filepath.Join(rootDir, "/var/lib/dpkg/status")
	OSSnapGlob = filepath.Join(rootDir, "/snaps/ubuntu-core*/current/")
	SeccompProfilesDir = filepath.Join(rootDir, "/var/lib/snapd/seccomp/profiles/")
	DeviceCgroupRoot = filepath.Join(rootDir, "/sys/fs/cgroup/devices/")
	MACOverrideGlobFormat = filepath.Join(rootDir, "/var/lib/apparmor/clicks/%s.json.additional")
	DevPtmx = filepath.Join(rootDir, "/dev/ptmx")
	DevPts = filepath.Join(rootDir, "/dev/pts")
	UdevDataDir = filepath.Join(rootDir, "/run/udev/data")
	SysDevBlockDir = filepath.Join(rootDir, "/sys/dev/block")
	SysDevCharDir = filepath.Join(rootDir, "/sys/dev/char")
	SnappyAppDevHelper = filepath.Join(rootDir, "/lib/udev/snappy-app-dev")

	StaticDeviceSyspaths = []string{
		filepath.Join(rootDir, "/sys/class/mem/null"),
		filepath.Join(rootDir, "/sys/class/mem/full"),
		filepath.Join(rootDir, "/sys/class/mem/zero"),
		filepath.Join(rootDir, "/sys/class/mem/random"),
		filepath.Join(rootDir, "/sys/class/mem/urandom"),
		filepath.Join(rootDir, "/sys/class/tty/tty"),
		filepath.Join(rootDir, "/sys/class/tty/console"),
		filepath.Join(rootDir, "/sys/class/tty/ptmx"),
	}
}

// RootDir returns the currently configured root directory.
func RootDir() string {
	return rootDir
}

// StripRootDir strips the global root directory from the given absolute
// path, panicking if either path is not absolute/related. Ported from the
// same-named helper snapd tests exercise in dirs_test.go.
func StripRootDir(dir string) string {
	if !filepath.IsAbs(dir) {
		panic(fmt.Sprintf("supplied path is not absolute %q", dir))
	}
	if !strings.HasPrefix(dir, rootDir) {
		panic(fmt.Sprintf("supplied path is not related to global root %q", dir))
	}
	result, err := filepath.Rel(rootDir, dir)
	if err != nil {
		panic(err)
	}
	return "/" + result
}

// MACOverrideFile returns the path to the MAC-override marker for the given
// application identifier.
func MACOverrideFile(appname string) string {
	return fmt.Sprintf(MACOverrideGlobFormat, appname)
}

// DeviceCgroupDir returns the per-application device cgroup directory.
func DeviceCgroupDir(appname string) string {
	return filepath.Join(DeviceCgroupRoot, "snappy."+appname+"/")
}
