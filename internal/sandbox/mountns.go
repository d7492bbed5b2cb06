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

// Package sandbox implements the mount-namespace, private-/tmp, devpts and
// privilege-drop stages of the setup pipeline (§4.C, §4.D, §4.F). Ported
// from original_source/src/main.c's setup_slave_mount_namespace(),
// setup_snappy_os_mounts(), setup_private_mount(), setup_private_pts() and
// the privilege-drop tail of main().
package sandbox

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

// Indirections over the raw syscalls, so tests can verify call sequences
// without a real mount namespace or root privileges, the same seam
// cmd/snap-confine uses for syscallExec.
var (
	unshareFn = unix.Unshare
	mountFn   = unix.Mount
)

// PrepareMountNamespace unshares the mount namespace and marks the new root
// subtree as a recursive slave of the host root: mounts performed in this
// namespace stay invisible to the host, while host mounts that appear later
// (e.g. removable media) still propagate in. No automounter can run under
// this launcher as a consequence.
func PrepareMountNamespace() error {
	if err := unshareFn(unix.CLONE_NEWNS); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot set up mount namespace: %w", err)
	}
	if err := mountFn("none", "/", "", unix.MS_REC|unix.MS_SLAVE, ""); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot make / a slave mount: %w", err)
	}
	return nil
}

// classicMarkers are the whitelisted directories bind-mounted from the OS
// snap over the host's own copies on a classic host. /etc is deliberately
// excluded: host-specific files (hostname, hosts, passwd, group) would need
// reconciliation that this launcher does not attempt.
var classicMarkers = []string{"/bin", "/sbin", "/lib", "/lib64", "/usr"}

// IsClassicHost reports whether the host presents as a "classic" (deb
// package-managed) distribution, detected by the presence of dpkg's status
// database.
func IsClassicHost(dpkgStatusFile string) bool {
	return unix.Access(dpkgStatusFile, unix.F_OK) == nil
}

// osSnapMountpoint resolves the single current OS snap directory matching
// osSnapGlob. Per §9's first Open Question, this performs a genuine
// cardinality check (the C original's `glob_res.gl_pathc =! 1` is a no-op
// typo for `!=`): any count other than exactly one is fatal.
func osSnapMountpoint(osSnapGlob string) (string, error) {
	matches, err := doublestar.FilepathGlob(osSnapGlob)
	if err != nil {
		return "", diag.Errorf(diag.EnvUnsatisfied, "cannot glob for OS snap: %w", err)
	}
	if len(matches) != 1 {
		return "", diag.Errorf(diag.EnvUnsatisfied, "expected 1 OS snap, found %d", len(matches))
	}
	return matches[0], nil
}

// BindMountOSView bind-mounts the OS snap's /bin, /sbin, /lib, /lib64 and
// /usr over the host's own, on a classic host only.
func BindMountOSView(osSnapGlob string) error {
	mountpoint, err := osSnapMountpoint(osSnapGlob)
	if err != nil {
		return err
	}
	for _, dst := range classicMarkers {
		src := fmt.Sprintf("%s%s", mountpoint, dst)
		if err := mountFn(src, dst, "", unix.MS_BIND, ""); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "cannot bind %s to %s: %w", src, dst, err)
		}
	}
	return nil
}
