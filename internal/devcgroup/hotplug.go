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

package devcgroup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/snapcore/snap-launch/internal/diag"
)

// assignTag is the udev tag a device must carry to be eligible for
// per-application assignment.
const assignTag = "snappy-assign"

// assignProperty is the udev property compared against the application
// identifier.
const assignProperty = "SNAPPY_APP"

var dbFilenameRE = regexp.MustCompile(`^([bc])(\d+):(\d+)$`)

// Device identifies one hotplug-assignable device: the sysfs path the
// out-of-process helper is told about, and its (major, minor) device
// number.
type Device struct {
	Syspath    string
	Major, Minor uint32
}

var readDirFn = os.ReadDir

// EnumerateHotplugDevices scans the udev runtime database directory for
// devices tagged assignTag whose assignProperty equals appname, resolving
// each matching entry's sysfs path via the kernel's /sys/dev/{block,char}
// symlink index. Entries are returned in directory-listing order — callers
// that need a stable ordering sort independently.
func EnumerateHotplugDevices(udevDataDir, sysDevBlockDir, sysDevCharDir, appname string) ([]Device, error) {
	entries, err := readDirFn(udevDataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, diag.Errorf(diag.SystemCallFailed, "cannot read udev database %s: %w", udevDataDir, err)
	}

	var devices []Device
	for _, entry := range entries {
		m := dbFilenameRE.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		devType := m[1]
		major, _ := strconv.ParseUint(m[2], 10, 32)
		minor, _ := strconv.ParseUint(m[3], 10, 32)

		tags, props, err := parseUdevDB(filepath.Join(udevDataDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if !tags[assignTag] || props[assignProperty] != appname {
			continue
		}

		sysDevDir := sysDevCharDir
		if devType == "b" {
			sysDevDir = sysDevBlockDir
		}
		syspath, err := resolveSyspath(sysDevDir, uint32(major), uint32(minor))
		if err != nil {
			return nil, err
		}
		devices = append(devices, Device{Syspath: syspath, Major: uint32(major), Minor: uint32(minor)})
	}

	return devices, nil
}

// parseUdevDB parses one udev database record. Tag lines ("G:<tag>") and
// property lines ("E:<KEY>=<VALUE>") are the only record kinds this
// assigner cares about.
func parseUdevDB(path string) (tags map[string]bool, props map[string]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, diag.Errorf(diag.SystemCallFailed, "cannot read udev record %s: %w", path, err)
	}
	defer f.Close()

	tags = make(map[string]bool)
	props = make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "G:"):
			tags[line[2:]] = true
		case strings.HasPrefix(line, "E:"):
			kv := strings.SplitN(line[2:], "=", 2)
			if len(kv) == 2 {
				props[kv[0]] = kv[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, diag.Errorf(diag.SystemCallFailed, "cannot parse udev record %s: %w", path, err)
	}

	return tags, props, nil
}

var readlinkFn = os.Readlink

// resolveSyspath follows the kernel-maintained /sys/dev/{block,char}/MAJOR:MINOR
// symlink back to the device's canonical sysfs directory.
func resolveSyspath(sysDevDir string, major, minor uint32) (string, error) {
	link := filepath.Join(sysDevDir, fmt.Sprintf("%d:%d", major, minor))
	target, err := readlinkFn(link)
	if err != nil {
		return "", diag.Errorf(diag.SystemCallFailed, "cannot resolve syspath for %d:%d: %w", major, minor, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target), nil
}

var readFileFn = os.ReadFile

// MajorMinorFromSyspath reads the kernel-maintained "dev" attribute under a
// sysfs device directory, which always holds "MAJOR:MINOR".
func MajorMinorFromSyspath(syspath string) (uint32, uint32, error) {
	data, err := readFileFn(filepath.Join(syspath, "dev"))
	if err != nil {
		return 0, 0, diag.Errorf(diag.SystemCallFailed, "cannot read device number for %s: %w", syspath, err)
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), ":", 2)
	if len(parts) != 2 {
		return 0, 0, diag.Errorf(diag.SystemCallFailed, "malformed dev attribute for %s: %q", syspath, data)
	}
	major, err1 := strconv.ParseUint(parts[0], 10, 32)
	minor, err2 := strconv.ParseUint(parts[1], 10, 32)
	if err1 != nil || err2 != nil {
		return 0, 0, diag.Errorf(diag.SystemCallFailed, "malformed dev attribute for %s: %q", syspath, data)
	}
	return uint32(major), uint32(minor), nil
}

// StaticDevices resolves the fixed list of always-assigned syspaths to
// Devices, in list order.
func StaticDevices(syspaths []string) ([]Device, error) {
	devices := make([]Device, 0, len(syspaths))
	for _, syspath := range syspaths {
		major, minor, err := MajorMinorFromSyspath(syspath)
		if err != nil {
			return nil, err
		}
		devices = append(devices, Device{Syspath: syspath, Major: major, Minor: minor})
	}
	return devices, nil
}

// AssignableDevices returns the union the assigner hands to the helper:
// the static list first, then the hotplug-enumerated set in enumeration
// order. Duplicates are tolerated deliberately — the helper is idempotent.
func AssignableDevices(staticSyspaths []string, udevDataDir, sysDevBlockDir, sysDevCharDir, appname string) ([]Device, error) {
	static, err := StaticDevices(staticSyspaths)
	if err != nil {
		return nil, err
	}
	hotplug, err := EnumerateHotplugDevices(udevDataDir, sysDevBlockDir, sysDevCharDir, appname)
	if err != nil {
		return nil, err
	}
	return append(static, hotplug...), nil
}
