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
	"fmt"
	"os"
	"strings"

	seccomplib "github.com/seccomp/libseccomp-golang"

	"github.com/snapcore/snap-launch/internal/diag"
)

type compileState int

const (
	stateStart compileState = iota
	statePreprocessed
	stateSkipped
	stateCompiled
	stateLoaded
	stateReleased
)

// compareOpMap translates this package's grammar-level CompareOp into the
// library's comparison operator.
var compareOpMap = map[CompareOp]seccomplib.ScmpCompareOp{
	CompareEqual:          seccomplib.CompareEqual,
	CompareNotEqual:       seccomplib.CompareNotEqual,
	CompareLess:           seccomplib.CompareLess,
	CompareLessOrEqual:    seccomplib.CompareLessOrEqual,
	CompareGreater:        seccomplib.CompareGreater,
	CompareGreaterOrEqual: seccomplib.CompareGreaterEqual,
}

// filterHandle is the slice of *seccomplib.ScmpFilter this package relies
// on, narrowed to an interface so tests can exercise the NNP/load state
// machine without installing a real kernel filter.
type filterHandle interface {
	AddRuleExact(call seccomplib.ScmpSyscall, action seccomplib.ScmpAction) error
	AddRule(call seccomplib.ScmpSyscall, action seccomplib.ScmpAction) error
	AddRuleConditionalExact(call seccomplib.ScmpSyscall, action seccomplib.ScmpAction, conds []seccomplib.ScmpCondition) error
	AddRuleConditional(call seccomplib.ScmpSyscall, action seccomplib.ScmpAction, conds []seccomplib.ScmpCondition) error
	SetNoNewPrivsBit(state bool) error
	Load() error
	Release()
	ExportBPF(out *os.File) error
}

// Profile is a profile that has been preprocessed and, unless skipped,
// turned into a loaded kernel filter context. It walks the state machine
// START -> PREPROCESSED -> {SKIPPED, COMPILED} -> LOADED -> RELEASED; every
// exit path, including fatal ones, ends in RELEASED.
type Profile struct {
	state   compileState
	skipped bool
	ctx     filterHandle
}

var newFilterFn = func(defaultAction seccomplib.ScmpAction) (filterHandle, error) {
	return seccomplib.NewFilter(defaultAction)
}
var getSyscallFromNameFn = seccomplib.GetSyscallFromName

// Compile preprocesses and parses profile text into a kernel filter
// context, without loading it. When the profile carries "@unrestricted" or
// "@complain", no filter context is built at all: the process keeps
// unrestricted syscall access, matching the original launcher's
// permissive short-circuit.
func Compile(profile []byte) (*Profile, error) {
	lines := splitLines(profile)

	pre, err := preprocess(lines)
	if err != nil {
		return nil, err
	}

	if pre.skipsCompilation() {
		return &Profile{state: stateSkipped, skipped: true}, nil
	}

	ctx, err := newFilterFn(seccomplib.ActKill)
	if err != nil {
		return nil, diag.Errorf(diag.SystemCallFailed, "seccomp_init failed: %w", err)
	}

	p := &Profile{state: statePreprocessed, ctx: ctx}

	for i, raw := range lines {
		line, relevant, err := relevantLine(raw, i+1)
		if err != nil {
			p.Release()
			return nil, err
		}
		if !relevant {
			continue
		}

		// Resolve the syscall before parsing its arguments: a syscall that
		// doesn't exist on this arch/kernel makes the whole line moot, even
		// if its argument tokens would otherwise fail to parse.
		fields := strings.Fields(line)
		if len(fields) == 0 {
			p.Release()
			return nil, diag.Errorf(diag.InvalidInput, "empty profile line")
		}
		scmpCall, err := getSyscallFromNameFn(fields[0])
		if err != nil {
			continue
		}

		rule, err := parseLine(line)
		if err != nil {
			p.Release()
			return nil, err
		}

		if err := addRule(ctx, scmpCall, rule.Args); err != nil {
			p.Release()
			return nil, diag.Errorf(diag.SystemCallFailed, "cannot add rule for %q: %w", line, err)
		}
	}

	p.state = stateCompiled
	return p, nil
}

// addRule attempts the library's architecture-strict entry point first,
// falling back to its general entry point when the strict one rejects the
// rule — exactly the two-step emission original_source/src/seccomp.c
// performs.
func addRule(ctx filterHandle, call seccomplib.ScmpSyscall, args []ArgConstraint) error {
	conds, err := buildConditions(args)
	if err != nil {
		return err
	}

	if len(conds) == 0 {
		if err := ctx.AddRuleExact(call, seccomplib.ActAllow); err == nil {
			return nil
		}
		return ctx.AddRule(call, seccomplib.ActAllow)
	}

	if err := ctx.AddRuleConditionalExact(call, seccomplib.ActAllow, conds); err == nil {
		return nil
	}
	return ctx.AddRuleConditional(call, seccomplib.ActAllow, conds)
}

func buildConditions(args []ArgConstraint) ([]seccomplib.ScmpCondition, error) {
	conds := make([]seccomplib.ScmpCondition, 0, len(args))
	for _, a := range args {
		op, ok := compareOpMap[a.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported comparison operator %d", a.Op)
		}
		cond, err := seccomplib.MakeCondition(uint(a.Position), op, a.Value)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// Release tears down the filter context, if one was built. It is
// idempotent and safe to call on every exit path, including fatal ones.
func (p *Profile) Release() {
	if p.ctx != nil {
		p.ctx.Release()
		p.ctx = nil
	}
	p.state = stateReleased
}

// Skipped reports whether this profile short-circuited rule compilation
// via "@unrestricted" or "@complain".
func (p *Profile) Skipped() bool {
	return p.skipped
}

// ExportBPF dumps the compiled-but-not-loaded filter program to out,
// without installing it into the kernel. cmd/snap-seccomp's compile
// command writes its output through it, and tests use it to decode the
// emitted program and run it through a BPF emulator instead of actually
// restricting the test process's own syscalls.
func (p *Profile) ExportBPF(out *os.File) error {
	if p.skipped || p.ctx == nil {
		return diag.Errorf(diag.SystemCallFailed, "cannot export an empty or released profile")
	}
	return p.ctx.ExportBPF(out)
}
