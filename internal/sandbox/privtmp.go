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

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

// Further indirections, for the parts of §4.D that aren't already covered
// by mountFn above.
var (
	mkdtempFn = unix.Mkdtemp
	chownFn   = unix.Chown
	umaskFn   = unix.Umask
)

// tmpEnvVars are every environment variable set to point at the private
// /tmp for the exec'd child.
var tmpEnvVars = []string{"TMPDIR", "TEMPDIR", "SNAP_APP_TMPDIR"}

// PreparePrivateTmp creates a mode-0700 per-invocation scratch directory
// under hostTmpDir, a mode-1777 "tmp" child inside it, bind-mounts that
// child over /tmp, re-marks /tmp private (so the bind is invisible to the
// host and vice versa), and chowns /tmp to the caller's real uid/gid after
// the bind (so a concurrent chown can't race the bind source). It then
// exports TMPDIR, TEMPDIR and SNAP_APP_TMPDIR.
func PreparePrivateTmp(hostTmpDir string, appname string, uid, gid int) error {
	base, err := mkdtempFn(filepath.Join(hostTmpDir, fmt.Sprintf("snap.%d_%s_XXXXXX", uid, appname)))
	if err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot create private tmp base: %w", err)
	}

	oldMask := umaskFn(0)
	tmpDir := filepath.Join(base, "tmp")
	mkdirErr := unix.Mkdir(tmpDir, 0o1777)
	umaskFn(oldMask)
	if mkdirErr != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot create private /tmp: %w", mkdirErr)
	}

	if err := mountFn(tmpDir, "/tmp", "", unix.MS_BIND, ""); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot bind private /tmp: %w", err)
	}
	if err := mountFn("none", "/tmp", "", unix.MS_PRIVATE, ""); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot make /tmp private: %w", err)
	}

	if err := chownFn("/tmp", uid, gid); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot chown /tmp: %w", err)
	}

	for _, name := range tmpEnvVars {
		if err := os.Setenv(name, "/tmp"); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "cannot set %s: %w", name, err)
		}
	}

	return nil
}
