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

	. "gopkg.in/check.v1"
)

type profileSuite struct{}

var _ = Suite(&profileSuite{})

func (s *profileSuite) TestLoadProfileFromDirMissingFileIsFatal(c *C) {
	err := LoadProfileFromDir(c.MkDir(), "hello-world")
	c.Assert(err, NotNil)
}

func (s *profileSuite) TestLoadProfileFromDirUnrestrictedSucceeds(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "hello-world"), []byte("@unrestricted\n"), 0644), IsNil)

	c.Assert(LoadProfileFromDir(dir, "hello-world"), IsNil)
}

func (s *profileSuite) TestLoadProfileFromDirParseFailureIsFatal(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "hello-world"), []byte("ioctl -5\n"), 0644), IsNil)

	err := LoadProfileFromDir(dir, "hello-world")
	c.Assert(err, NotNil)
}
