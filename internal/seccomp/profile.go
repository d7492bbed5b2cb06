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
	"os"
	"path/filepath"

	"github.com/snapcore/snap-launch/internal/diag"
)

var readFileFn = os.ReadFile

// LoadProfileFromDir reads the named profile out of profileDir, compiles
// it, and loads it into the kernel in one step — the 4.H orchestrator's
// "compile and load" stage.
func LoadProfileFromDir(profileDir, profileName string) error {
	path := filepath.Join(profileDir, profileName)

	data, err := readFileFn(path)
	if err != nil {
		return diag.Errorf(diag.EnvUnsatisfied, "cannot open seccomp profile %s: %w", path, err)
	}

	p, err := Compile(data)
	if err != nil {
		return err
	}

	return p.Load()
}
