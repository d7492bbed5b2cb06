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

// Package mkpath walks an absolute path component by component, creating
// each directory with openat/mkdirat so that no component is ever resolved
// through a symlink. This defeats a race where a hostile local user swaps a
// symlink into a parent directory between the check and the use of a path
// component (§4.B). Ported from original_source/src/main.c's mkpath().
package mkpath

import (
	"strings"

	"golang.org/x/sys/unix"

	"github.com/snapcore/snap-launch/internal/diag"
)

// openFlags mirror the C original: don't follow symlinks, don't leak the
// descriptor to children, and require each component to already be (or
// become) a directory.
const openFlags = unix.O_NOFOLLOW | unix.O_CLOEXEC | unix.O_DIRECTORY

// CreateAll creates every directory component of path in order, starting
// from a descriptor on "/", tolerating components that already exist.
// path must be absolute; a relative path is an InvalidInput error.
func CreateAll(path string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return diag.Errorf(diag.InvalidInput, "path %q must be absolute", path)
	}

	fd, err := unix.Open("/", openFlags, 0)
	if err != nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot open root directory: %w", err)
	}

	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" {
			continue
		}

		if err := unix.Mkdirat(fd, seg, 0755); err != nil && err != unix.EEXIST {
			unix.Close(fd)
			return diag.Errorf(diag.SystemCallFailed, "cannot create directory %q: %w", seg, err)
		}

		next, err := unix.Openat(fd, seg, openFlags, 0)
		unix.Close(fd)
		if err != nil {
			return diag.Errorf(diag.SystemCallFailed, "cannot open directory %q: %w", seg, err)
		}
		fd = next
	}

	unix.Close(fd)
	return nil
}
