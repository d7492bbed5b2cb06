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
	"context"
	"errors"
	"fmt"

	. "gopkg.in/check.v1"
	"golang.org/x/time/rate"

	"github.com/snapcore/snap-launch/internal/diag"
)

type assignSuite struct{}

var _ = Suite(&assignSuite{})

func (s *assignSuite) mockExecRun(c *C) (*[]string, func()) {
	origRun := execRunFn
	var calls []string
	execRunFn = func(helper string, args ...string) error {
		calls = append(calls, fmt.Sprintf("%s %v", helper, args))
		return nil
	}
	return &calls, func() { execRunFn = origRun }
}

func (s *assignSuite) TestAssignDeviceInvokesHelper(c *C) {
	calls, restore := s.mockExecRun(c)
	defer restore()

	err := AssignDevice("/lib/udev/snappy-app-dev", "hello-world", Device{Syspath: "/sys/class/mem/null", Major: 1, Minor: 3})
	c.Assert(err, IsNil)
	c.Assert(*calls, HasLen, 1)
	c.Check((*calls)[0], Equals, "/lib/udev/snappy-app-dev [add hello-world /sys/class/mem/null 1:3]")
}

func (s *assignSuite) TestAssignDeviceHelperFailureIsFatal(c *C) {
	origRun := execRunFn
	execRunFn = func(helper string, args ...string) error { return errors.New("exit status 1") }
	defer func() { execRunFn = origRun }()

	err := AssignDevice("/lib/udev/snappy-app-dev", "hello-world", Device{Major: 1, Minor: 3})
	c.Assert(err, NotNil)
	kind, ok := diag.KindOf(err)
	c.Assert(ok, Equals, true)
	c.Check(kind, Equals, diag.ChildHelperFailed)
}

func (s *assignSuite) TestAssignDevicesSpawnsOneAtATimeInOrder(c *C) {
	calls, restore := s.mockExecRun(c)
	defer restore()

	devices := []Device{
		{Syspath: "/sys/class/mem/null", Major: 1, Minor: 3},
		{Syspath: "/sys/class/mem/zero", Major: 1, Minor: 5},
	}
	err := AssignDevices(context.Background(), "/lib/udev/snappy-app-dev", "hello-world", devices, nil)
	c.Assert(err, IsNil)
	c.Assert(*calls, HasLen, 2)
	c.Check((*calls)[0], Equals, "/lib/udev/snappy-app-dev [add hello-world /sys/class/mem/null 1:3]")
	c.Check((*calls)[1], Equals, "/lib/udev/snappy-app-dev [add hello-world /sys/class/mem/zero 1:5]")
}

func (s *assignSuite) TestAssignDevicesStopsOnFirstFailure(c *C) {
	origRun := execRunFn
	var n int
	execRunFn = func(helper string, args ...string) error {
		n++
		if n == 1 {
			return errors.New("boom")
		}
		return nil
	}
	defer func() { execRunFn = origRun }()

	devices := []Device{{Major: 1, Minor: 3}, {Major: 1, Minor: 5}}
	err := AssignDevices(context.Background(), "/lib/udev/snappy-app-dev", "hello-world", devices, nil)
	c.Assert(err, NotNil)
	c.Check(n, Equals, 1)
}

func (s *assignSuite) TestAssignDevicesRespectsLimiter(c *C) {
	calls, restore := s.mockExecRun(c)
	defer restore()

	limiter := rate.NewLimiter(rate.Inf, 1)
	devices := []Device{{Major: 1, Minor: 3}}
	err := AssignDevices(context.Background(), "/lib/udev/snappy-app-dev", "hello-world", devices, limiter)
	c.Assert(err, IsNil)
	c.Assert(*calls, HasLen, 1)
}
