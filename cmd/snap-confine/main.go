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

// Command snap-confine is the launcher orchestrator (§4.H): given an
// application identifier, a MAC profile name and a target binary, it
// prepares the isolated execution environment described throughout this
// repository's internal packages and then execs the target. Ported from
// original_source/src/main.c's main().
package main

import (
	"context"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/snapcore/snap-launch/dirs"
	"github.com/snapcore/snap-launch/internal/appname"
	"github.com/snapcore/snap-launch/internal/devcgroup"
	"github.com/snapcore/snap-launch/internal/diag"
	"github.com/snapcore/snap-launch/internal/launchenv"
	"github.com/snapcore/snap-launch/internal/mac"
	"github.com/snapcore/snap-launch/internal/mkpath"
	"github.com/snapcore/snap-launch/internal/sandbox"
	"github.com/snapcore/snap-launch/internal/seccomp"
)

// launchRequest is the launch request §3 describes, produced from the
// process argument vector and consumed exactly once.
type launchRequest struct {
	appname    string
	macProfile string
	binary     string
	targetArgv []string
}

// parseArgs splits the three mandatory positional arguments from whatever
// the target's own argv (starting at argv[0] = binary) should be.
func parseArgs(args []string) (launchRequest, error) {
	const nrArgs = 3
	if len(args) < nrArgs {
		return launchRequest{}, diag.Errorf(diag.InvalidInput,
			"usage: snap-confine <appname> <mac-profile> <binary> [args...]")
	}
	return launchRequest{
		appname:    args[0],
		macProfile: args[1],
		binary:     args[2],
		targetArgv: args[nrArgs:],
	}, nil
}

// Indirections over raw syscalls and process identity, mirroring the seam
// every other package in this repo uses so the orchestrator's sequencing
// can be exercised without root or a real exec.
var (
	geteuidFn   = unix.Geteuid
	getuidFn    = unix.Getuid
	getgidFn    = unix.Getgid
	syscallExec = syscall.Exec
)

// isPrivilegedBySetuid reports whether this process is running with an
// effective uid of 0 borrowed from a setuid bit rather than from an
// already-root invoker. The seccomp-profile-directory override (§6) is
// honored only when this is false, so an unprivileged user who happens to
// invoke a setuid-root binary cannot redirect it at an arbitrary profile.
func isPrivilegedBySetuid() bool {
	return geteuidFn() == 0 && getuidFn() != 0
}

// hostTmpDir is the real (host) /tmp directory new private scratch space
// is created under, before the bind-mount makes it the sandbox's /tmp.
const hostTmpDir = "/tmp"

// deviceHelperRate bounds how fast the out-of-process device-assignment
// helper is spawned when a hotplug enumeration returns many devices.
const deviceHelperRate = 50

func run(args []string, env launchenv.Config) error {
	req, err := parseArgs(args)
	if err != nil {
		return err
	}

	if !appname.Valid(req.appname) {
		return diag.Errorf(diag.InvalidInput, "appname %q not allowed", req.appname)
	}

	// this code always needs to run as root for the cgroup/udev setup,
	// however the no-root escape hatch lets tests run unprivileged.
	if geteuidFn() != 0 && !env.NoRootOK {
		return diag.Errorf(diag.EnvUnsatisfied, "need to run as root or suid")
	}

	if geteuidFn() == 0 {
		if err := sandbox.PrepareMountNamespace(); err != nil {
			return err
		}

		if sandbox.IsClassicHost(dirs.DpkgStatusFile) {
			if err := sandbox.BindMountOSView(dirs.OSSnapGlob); err != nil {
				return err
			}
		}

		uid, gid := getuidFn(), getgidFn()
		if err := sandbox.PreparePrivateTmp(hostTmpDir, req.appname, uid, gid); err != nil {
			return err
		}
		if err := sandbox.PreparePrivatePts(dirs.DevPts, dirs.DevPtmx); err != nil {
			return err
		}

		needsDevices, err := devcgroup.OverrideGrantsDeviceAccess(dirs.MACOverrideFile(req.appname))
		if err != nil {
			return err
		}
		if needsDevices {
			cgroupDir := dirs.DeviceCgroupDir(req.appname)
			if err := devcgroup.Setup(cgroupDir); err != nil {
				return err
			}
			devices, err := devcgroup.AssignableDevices(dirs.StaticDeviceSyspaths,
				dirs.UdevDataDir, dirs.SysDevBlockDir, dirs.SysDevCharDir, req.appname)
			if err != nil {
				return err
			}
			limiter := rate.NewLimiter(rate.Limit(deviceHelperRate), 1)
			if err := devcgroup.AssignDevices(context.Background(), dirs.SnappyAppDevHelper, req.appname, devices, limiter); err != nil {
				return err
			}
		}

		if err := sandbox.DropPrivileges(); err != nil {
			return err
		}
	}

	if env.UserData != "" {
		if !filepath.IsAbs(env.UserData) {
			return diag.Errorf(diag.InvalidInput, "user data directory must be an absolute path")
		}
		if err := mkpath.CreateAll(env.UserData); err != nil {
			return err
		}
	}

	if err := mac.RequestTransitionOnExec(req.macProfile); err != nil {
		if !env.InsideTests {
			return err
		}
		diag.Debugf("aa_change_onexec failed (ignored, SNAPPY_LAUNCHER_INSIDE_TESTS set): %v", err)
	}

	profileDir := dirs.SeccompProfilesDir
	if env.SeccompProfileDirOverride != "" && !isPrivilegedBySetuid() {
		profileDir = env.SeccompProfileDirOverride
	}
	if err := seccomp.LoadProfileFromDir(profileDir, req.macProfile); err != nil {
		return err
	}

	argv := append([]string{req.binary}, req.targetArgv...)
	if err := syscallExec(req.binary, argv, os.Environ()); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "execv failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], launchenv.FromEnviron()); err != nil {
		diag.Fatalf("%v", err)
	}
}
