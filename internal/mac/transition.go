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

// Package mac drives the MAC runtime's profile-transition-on-exec request,
// the one external collaborator §1 names explicitly: this package never
// implements confinement itself, it only speaks the runtime's contract.
// Ported from original_source/src/main.c's single `aa_change_onexec(aa_profile)`
// call: that libapparmor entry point is itself a thin wrapper that writes
// "exec <profile>" to /proc/self/attr/exec (or the modern ".../attr/apparmor/exec"
// alias), so this package drives the same kernel-documented file contract
// directly rather than binding the C library.
package mac

import (
	"fmt"
	"os"

	"github.com/snapcore/snap-launch/internal/diag"
)

// execAttrPath is the kernel interface aa_change_onexec writes through.
// Overridden by tests so the transition can be observed without needing a
// real MAC runtime loaded in the kernel.
var execAttrPath = "/proc/self/attr/exec"

var writeFileFn = os.WriteFile

// RequestTransitionOnExec asks the MAC runtime to switch the process to
// profile the moment the next exec() succeeds. Exec never changes the
// profile of the process performing it otherwise.
func RequestTransitionOnExec(profile string) error {
	cmd := fmt.Sprintf("exec %s", profile)
	if err := writeFileFn(execAttrPath, []byte(cmd), 0); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "aa_change_onexec(%s) failed: %w", profile, err)
	}
	return nil
}
