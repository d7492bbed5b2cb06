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

package seccomp

import (
	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

var (
	getresuidFn = unix.Getresuid
	seteuidFn   = unix.Seteuid
	geteuidFn   = unix.Geteuid
)

// Load installs the compiled filter into the kernel. A skipped profile
// loads nothing: the process keeps unrestricted syscall access.
//
// Loading must work even after this process has already dropped from
// root, because a subsequent MAC transition on exec needs to be able to
// elevate privileges again — something the kernel's "no-new-privs" bit
// would otherwise block. So: disable NNP on the filter context whenever
// any of real, effective or saved uid is still zero; and if the effective
// uid has already been dropped but the saved uid is still root, re-raise
// the effective uid around the load call and restore it afterward,
// verifying each transition by reading back geteuid().
func (p *Profile) Load() error {
	defer p.Release()

	if p.skipped {
		return nil
	}
	if p.ctx == nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot load a released or uncompiled profile")
	}

	var real, effective, saved int
	if err := getresuidFn(&real, &effective, &saved); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "could not find user IDs: %w", err)
	}

	if real == 0 || effective == 0 || saved == 0 {
		if err := p.ctx.SetNoNewPrivsBit(false); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "cannot disable no-new-privs: %w", err)
		}
	}

	raised := false
	if effective != 0 && saved == 0 {
		if err := seteuidFn(0); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "seteuid(0) failed: %w", err)
		}
		if geteuidFn() != 0 {
			return diag.Errorf(diag.SystemCallFailed, "raising privileges before seccomp load did not work")
		}
		raised = true
	}

	loadErr := p.ctx.Load()

	if raised {
		if err := seteuidFn(real); err != nil {
			return diag.Errorf(diag.SystemCallFailed, "seteuid(%d) failed: %w", real, err)
		}
		if real != 0 && geteuidFn() == 0 {
			return diag.Errorf(diag.SystemCallFailed, "dropping privileges after seccomp load did not work")
		}
	}

	if loadErr != nil {
		return diag.Errorf(diag.SystemCallFailed, "seccomp_load failed: %w", loadErr)
	}

	p.state = stateLoaded
	return nil
}
