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
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
)

type hotplugSuite struct{}

var _ = Suite(&hotplugSuite{})

func writeUdevRecord(c *C, dir, name, content string) {
	c.Assert(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644), IsNil)
}

func (s *hotplugSuite) TestEnumerateMatchesTagAndProperty(c *C) {
	udevDir := c.MkDir()
	sysDevChar := c.MkDir()

	writeUdevRecord(c, udevDir, "c13:66", "G:snappy-assign\nE:SNAPPY_APP=hello-world\nE:OTHER=x\n")
	// no tag: must be excluded
	writeUdevRecord(c, udevDir, "c13:67", "E:SNAPPY_APP=hello-world\n")
	// wrong app: must be excluded
	writeUdevRecord(c, udevDir, "c13:68", "G:snappy-assign\nE:SNAPPY_APP=other-app\n")
	// not a device record at all: must be ignored
	writeUdevRecord(c, udevDir, "README", "not a device\n")

	joystickDir := filepath.Join(c.MkDir(), "devices/virtual/input/js0")
	c.Assert(os.MkdirAll(joystickDir, 0755), IsNil)
	c.Assert(os.Symlink(joystickDir, filepath.Join(sysDevChar, "13:66")), IsNil)

	devices, err := EnumerateHotplugDevices(udevDir, "/nonexistent", sysDevChar, "hello-world")
	c.Assert(err, IsNil)
	c.Assert(devices, HasLen, 1)
	c.Check(devices[0].Major, Equals, uint32(13))
	c.Check(devices[0].Minor, Equals, uint32(66))
	c.Check(devices[0].Syspath, Equals, joystickDir)
}

func (s *hotplugSuite) TestEnumerateMissingDirIsEmpty(c *C) {
	devices, err := EnumerateHotplugDevices(filepath.Join(c.MkDir(), "missing"), "/nonexistent", "/nonexistent", "hello-world")
	c.Assert(err, IsNil)
	c.Check(devices, HasLen, 0)
}

func (s *hotplugSuite) TestMajorMinorFromSyspath(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "dev"), []byte("1:3\n"), 0644), IsNil)

	major, minor, err := MajorMinorFromSyspath(dir)
	c.Assert(err, IsNil)
	c.Check(major, Equals, uint32(1))
	c.Check(minor, Equals, uint32(3))
}

func (s *hotplugSuite) TestMajorMinorFromSyspathMalformed(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "dev"), []byte("not-a-devnum\n"), 0644), IsNil)

	_, _, err := MajorMinorFromSyspath(dir)
	c.Assert(err, NotNil)
}

func (s *hotplugSuite) TestStaticDevicesResolvesInOrder(c *C) {
	dir1, dir2 := c.MkDir(), c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir1, "dev"), []byte("1:3\n"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir2, "dev"), []byte("1:5\n"), 0644), IsNil)

	devices, err := StaticDevices([]string{dir1, dir2})
	c.Assert(err, IsNil)
	c.Assert(devices, HasLen, 2)
	c.Check(devices[0].Syspath, Equals, dir1)
	c.Check(devices[1].Syspath, Equals, dir2)
}

func (s *hotplugSuite) TestAssignableDevicesOrdersStaticFirst(c *C) {
	staticDir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(staticDir, "dev"), []byte("1:3\n"), 0644), IsNil)

	udevDir := c.MkDir()
	devices, err := AssignableDevices([]string{staticDir}, udevDir, "/nonexistent", "/nonexistent", "hello-world")
	c.Assert(err, IsNil)
	c.Assert(devices, HasLen, 1)
	c.Check(devices[0].Syspath, Equals, staticDir)
}
