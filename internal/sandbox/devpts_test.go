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
	"path/filepath"

	. "gopkg.in/check.v1"
	"golang.org/x/sys/unix"
)

type devptsSuite struct{}

var _ = Suite(&devptsSuite{})

func (s *devptsSuite) mockMount(c *C) (*[]mountCall, func()) {
	origMount := mountFn
	var calls []mountCall
	mountFn = func(source, target, fstype string, flags uintptr, data string) error {
		calls = append(calls, mountCall{source, target, fstype, flags})
		return nil
	}
	return &calls, func() { mountFn = origMount }
}

func (s *devptsSuite) TestBindsOverExistingPtmx(c *C) {
	calls, restore := s.mockMount(c)
	defer restore()

	dir := c.MkDir()
	devPts := filepath.Join(dir, "pts")
	devPtmx := filepath.Join(dir, "ptmx")
	c.Assert(os.WriteFile(devPtmx, nil, 0666), IsNil)

	c.Assert(PreparePrivatePts(devPts, devPtmx), IsNil)

	c.Assert(*calls, HasLen, 2)
	c.Check((*calls)[0].target, Equals, devPts)
	c.Check((*calls)[1].source, Equals, devPts+"/ptmx")
	c.Check((*calls)[1].target, Equals, devPtmx)
	c.Check((*calls)[1].flags, Equals, uintptr(unix.MS_BIND|unix.MS_NOSUID|unix.MS_NOEXEC))
}

func (s *devptsSuite) TestSymlinksWhenPtmxMissing(c *C) {
	calls, restore := s.mockMount(c)
	defer restore()

	origSymlink := symlinkFn
	var linkTarget, linkName string
	symlinkFn = func(oldname, newname string) error {
		linkTarget, linkName = oldname, newname
		return nil
	}
	defer func() { symlinkFn = origSymlink }()

	dir := c.MkDir()
	devPts := filepath.Join(dir, "pts")
	devPtmx := filepath.Join(dir, "ptmx")

	c.Assert(PreparePrivatePts(devPts, devPtmx), IsNil)

	c.Assert(*calls, HasLen, 1)
	c.Check(linkTarget, Equals, devPts+"/ptmx")
	c.Check(linkName, Equals, devPtmx)
}
