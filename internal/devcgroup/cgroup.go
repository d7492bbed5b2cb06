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
	"fmt"
	"os"
	"path/filepath"

	"github.com/snapcore/snap-launch/internal/diag"
)

var (
	mkdirFn    = os.Mkdir
	writeFileFn = os.WriteFile
	getpidFn   = os.Getpid
)

// Setup creates the per-application device cgroup (tolerating
// already-exists), moves the current process into it, and writes the
// "deny all" baseline to devices.deny. It is idempotent: the deny-all
// baseline is re-asserted on every call, even against a cgroup shared with
// an earlier invocation for the same application.
func Setup(cgroupDir string) error {
	if err := mkdirFn(cgroupDir, 0755); err != nil && !os.IsExist(err) {
		return diag.Errorf(diag.SystemCallFailed, "cannot create device cgroup %s: %w", cgroupDir, err)
	}

	tasks := filepath.Join(cgroupDir, "tasks")
	if err := writeFileFn(tasks, []byte(fmt.Sprintf("%d", getpidFn())), 0644); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot join device cgroup %s: %w", cgroupDir, err)
	}

	deny := filepath.Join(cgroupDir, "devices.deny")
	if err := writeFileFn(deny, []byte("a"), 0644); err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot deny device access on %s: %w", cgroupDir, err)
	}

	return nil
}
