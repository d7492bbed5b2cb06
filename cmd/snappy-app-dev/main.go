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

// Command snappy-app-dev is the out-of-process helper §4.E and §6 name: it
// is invoked once per device as `snappy-app-dev ACTION APPNAME SYSPATH
// MAJOR:MINOR` by the launcher's device-cgroup assigner. It resolves the
// per-application devices-cgroup control file ACTION writes to and appends
// one devices-cgroup ACL line to it, inferring the device's kind (block or
// char) from its sysfs path.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snapcore/snap-launch/dirs"
	"github.com/snapcore/snap-launch/internal/appname"
	"github.com/snapcore/snap-launch/internal/diag"
)

// GetDeviceCgroupFn resolves which devices-cgroup control file action
// writes to for the application identified by appName: "add" and "change"
// extend the allow-list, "remove" extends the deny-list.
func GetDeviceCgroupFn(action, appName string) (string, error) {
	var file string
	switch action {
	case "add", "change":
		file = "devices.allow"
	case "remove":
		file = "devices.deny"
	default:
		return "", fmt.Errorf("unsupported action %q", action)
	}
	if !appname.Valid(appName) {
		return "", fmt.Errorf("appname %q not allowed", appName)
	}
	return filepath.Join(dirs.DeviceCgroupDir(appName), file), nil
}

// GetAcl builds the devices-cgroup ACL line for one device: its kind,
// inferred from whether syspath runs through a "/block/" component, and
// its MAJOR:MINOR pair, always granting read/write/mknod.
func GetAcl(syspath, majorMinor string) (string, error) {
	if !strings.HasPrefix(syspath, "/") {
		return "", fmt.Errorf("syspath should start with /")
	}
	if filepath.Clean(syspath) != syspath {
		return "", fmt.Errorf("invalid syspath %q", syspath)
	}

	parts := strings.SplitN(majorMinor, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("should be MAJOR:MINOR")
	}
	if _, err := strconv.ParseUint(parts[0], 10, 32); err != nil {
		return "", fmt.Errorf("MAJOR and MINOR should be uint32")
	}
	if _, err := strconv.ParseUint(parts[1], 10, 32); err != nil {
		return "", fmt.Errorf("MAJOR and MINOR should be uint32")
	}

	kind := "c"
	for _, seg := range strings.Split(syspath, "/") {
		if seg == "block" {
			kind = "b"
			break
		}
	}
	return fmt.Sprintf("%s %s rwm", kind, majorMinor), nil
}

var writeFileFn = os.WriteFile

// doRun performs one helper invocation: validate the four positional
// arguments, resolve the cgroup control file, and append the ACL line.
func doRun(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: snappy-app-dev ACTION APPNAME SYSPATH MAJOR:MINOR")
	}
	action, appName, syspath, majorMinor := args[0], args[1], args[2], args[3]

	cgroupFile, err := GetDeviceCgroupFn(action, appName)
	if err != nil {
		return err
	}

	acl, err := GetAcl(syspath, majorMinor)
	if err != nil {
		return err
	}

	if err := writeFileFn(cgroupFile, []byte(acl+"\n"), 0644); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot write %s: %w", cgroupFile, err)
	}
	return nil
}

func main() {
	if err := doRun(os.Args[1:]); err != nil {
		diag.Fatalf("%v", err)
	}
}
