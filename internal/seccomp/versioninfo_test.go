// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2019-2024 Canonical Ltd
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
	"strings"

	. "gopkg.in/check.v1"
)

type versionInfoSuite struct{}

var _ = Suite(&versionInfoSuite{})

func (s *versionInfoSuite) TestVersionInfoChangesWithSymbolSet(c *C) {
	origList := listKnownSyscallsFn
	defer func() { listKnownSyscallsFn = origList }()

	listKnownSyscallsFn = func() []string { return []string{"read", "write"} }
	vi1 := VersionInfo()

	listKnownSyscallsFn = func() []string { return []string{"read"} }
	vi2 := VersionInfo()

	c.Check(vi1, Not(Equals), vi2)
}

func (s *versionInfoSuite) TestVersionInfoIsStableForSameSymbolSet(c *C) {
	origList := listKnownSyscallsFn
	defer func() { listKnownSyscallsFn = origList }()

	listKnownSyscallsFn = func() []string { return []string{"write", "read"} }
	vi1 := VersionInfo()
	vi2 := VersionInfo()

	c.Check(vi1, Equals, vi2)
	c.Check(strings.Contains(vi1, "."), Equals, true)
}
