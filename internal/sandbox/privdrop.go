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
	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

var (
	setgidFn  = unix.Setgid
	setuidFn  = unix.Setuid
	getuidFn  = unix.Getuid
	getgidFn  = unix.Getgid
	geteuidFn = unix.Geteuid
	getegidFn = unix.Getegid
)

// DropPrivileges restores the effective gid then uid to the real
// (unprivileged) ids, without touching supplementary group membership: the
// user keeps whatever groups they already belonged to. It then verifies the
// drop actually took, aborting if a non-root real id somehow still observes
// a zero effective id — the defense against a syscall that silently failed
// to drop privilege.
func DropPrivileges() error {
	realUID := getuidFn()
	realGID := getgidFn()

	if err := setgidFn(realGID); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "setgid failed: %w", err)
	}
	if err := setuidFn(realUID); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "setuid failed: %w", err)
	}

	if realGID != 0 && (getuidFn() == 0 || geteuidFn() == 0) {
		return diag.Errorf(diag.SystemCallFailed, "dropping privileges did not work")
	}
	if realUID != 0 && (getgidFn() == 0 || getegidFn() == 0) {
		return diag.Errorf(diag.SystemCallFailed, "dropping privileges did not work")
	}

	return nil
}
