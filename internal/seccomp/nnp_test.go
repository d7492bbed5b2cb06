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

	seccomplib "github.com/seccomp/libseccomp-golang"
	. "gopkg.in/check.v1"
)

// fakeFilter is a filterHandle double that records what the NNP/load
// dance did instead of touching a real kernel filter.
type fakeFilter struct {
	nnpDisabled bool
	loaded      bool
	released    bool
	loadErr     error
}

func (f *fakeFilter) AddRuleExact(seccomplib.ScmpSyscall, seccomplib.ScmpAction) error { return nil }
func (f *fakeFilter) AddRule(seccomplib.ScmpSyscall, seccomplib.ScmpAction) error       { return nil }
func (f *fakeFilter) AddRuleConditionalExact(seccomplib.ScmpSyscall, seccomplib.ScmpAction, []seccomplib.ScmpCondition) error {
	return nil
}
func (f *fakeFilter) AddRuleConditional(seccomplib.ScmpSyscall, seccomplib.ScmpAction, []seccomplib.ScmpCondition) error {
	return nil
}
func (f *fakeFilter) SetNoNewPrivsBit(state bool) error {
	f.nnpDisabled = !state
	return nil
}
func (f *fakeFilter) Load() error {
	f.loaded = true
	return f.loadErr
}
func (f *fakeFilter) Release()                      { f.released = true }
func (f *fakeFilter) ExportBPF(out *os.File) error   { return nil }

type nnpSuite struct{}

var _ = Suite(&nnpSuite{})

func (s *nnpSuite) mockIDs(c *C, real, effective, saved int) (*int, func()) {
	origGetresuid, origSeteuid, origGeteuid := getresuidFn, seteuidFn, geteuidFn
	euid := effective

	getresuidFn = func(ruid, euidp, suid *int) error {
		*ruid, *euidp, *suid = real, euid, saved
		return nil
	}
	seteuidFn = func(uid int) error {
		euid = uid
		return nil
	}
	geteuidFn = func() int { return euid }

	return &euid, func() {
		getresuidFn, seteuidFn, geteuidFn = origGetresuid, origSeteuid, origGeteuid
	}
}

func (s *nnpSuite) TestLoadDisablesNNPWhenAnyIDIsRoot(c *C) {
	_, restore := s.mockIDs(c, 0, 1000, 1000)
	defer restore()

	filter := &fakeFilter{}
	p := &Profile{state: stateCompiled, ctx: filter}

	c.Assert(p.Load(), IsNil)
	c.Check(filter.nnpDisabled, Equals, true)
	c.Check(filter.loaded, Equals, true)
	c.Check(filter.released, Equals, true)
}

func (s *nnpSuite) TestLoadKeepsNNPWhenFullyUnprivileged(c *C) {
	_, restore := s.mockIDs(c, 1000, 1000, 1000)
	defer restore()

	filter := &fakeFilter{}
	p := &Profile{state: stateCompiled, ctx: filter}

	c.Assert(p.Load(), IsNil)
	c.Check(filter.nnpDisabled, Equals, false)
}

func (s *nnpSuite) TestLoadRaisesAndRestoresEuidAroundLoad(c *C) {
	euid, restore := s.mockIDs(c, 1000, 1000, 0)
	defer restore()

	filter := &fakeFilter{}
	p := &Profile{state: stateCompiled, ctx: filter}

	c.Assert(p.Load(), IsNil)
	c.Check(*euid, Equals, 1000)
}

func (s *nnpSuite) TestLoadFailurePropagates(c *C) {
	_, restore := s.mockIDs(c, 1000, 1000, 1000)
	defer restore()

	filter := &fakeFilter{loadErr: os.ErrPermission}
	p := &Profile{state: stateCompiled, ctx: filter}

	err := p.Load()
	c.Assert(err, NotNil)
	c.Check(filter.released, Equals, true)
}

func (s *nnpSuite) TestLoadOnSkippedProfileIsNoop(c *C) {
	p := &Profile{state: stateSkipped, skipped: true}
	c.Assert(p.Load(), IsNil)
}
