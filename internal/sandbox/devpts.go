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
	"os"

	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

var symlinkFn = os.Symlink

// PreparePrivatePts mounts a new devpts instance at devPts and arranges for
// devPtmx to point at its ptmx node: bind-mounted over it (no-suid,
// no-exec) if devPtmx already exists, or created as a symlink otherwise.
func PreparePrivatePts(devPts, devPtmx string) error {
	if err := mountFn("devpts", devPts, "devpts", unix.MS_MGC_VAL,
		"newinstance,ptmxmode=0666,mode=0620,gid=5"); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot mount new devpts instance: %w", err)
	}

	instancePtmx := devPts + "/ptmx"
	if _, err := os.Stat(devPtmx); err == nil {
		if err := mountFn(instancePtmx, devPtmx, "none", unix.MS_BIND|unix.MS_NOSUID|unix.MS_NOEXEC, ""); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "cannot bind %s to %s: %w", instancePtmx, devPtmx, err)
		}
		return nil
	}

	if err := symlinkFn(instancePtmx, devPtmx); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot symlink %s to %s: %w", instancePtmx, devPtmx, err)
	}
	return nil
}
