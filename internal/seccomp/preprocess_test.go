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
	. "gopkg.in/check.v1"
)

type preprocessSuite struct{}

var _ = Suite(&preprocessSuite{})

func (s *preprocessSuite) TestNoDirectives(c *C) {
	pre, err := preprocess([]string{"read", "write"})
	c.Assert(err, IsNil)
	c.Check(pre.skipsCompilation(), Equals, false)
}

func (s *preprocessSuite) TestUnrestricted(c *C) {
	pre, err := preprocess([]string{"@unrestricted"})
	c.Assert(err, IsNil)
	c.Check(pre.unrestricted, Equals, true)
	c.Check(pre.skipsCompilation(), Equals, true)
}

func (s *preprocessSuite) TestComplainTreatedAsUnrestricted(c *C) {
	pre, err := preprocess([]string{"@complain", "read"})
	c.Assert(err, IsNil)
	c.Check(pre.complain, Equals, true)
	c.Check(pre.skipsCompilation(), Equals, true)
}

func (s *preprocessSuite) TestDirectiveIgnoredInsideComment(c *C) {
	pre, err := preprocess([]string{"# @unrestricted", "read"})
	c.Assert(err, IsNil)
	c.Check(pre.skipsCompilation(), Equals, false)
}
