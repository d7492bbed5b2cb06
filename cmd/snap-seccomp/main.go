// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2017-2024 Canonical Ltd
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

// Command snap-seccomp is a standalone entry point onto internal/seccomp,
// useful for compiling a profile to a cacheable BPF program outside of a
// live launch, and for reporting the version/symbol-set cache key that
// identifies what this build of the compiler is capable of.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/snapcore/snap-launch/internal/diag"
	"github.com/snapcore/snap-launch/internal/seccomp"
)

type compileCommand struct {
	Positional struct {
		ProfilePath string `positional-arg-name:"profile-path" required:"yes"`
		OutPath     string `positional-arg-name:"out-path" required:"yes"`
	} `positional-args:"yes"`
}

func (c *compileCommand) Execute(args []string) error {
	data, err := os.ReadFile(c.Positional.ProfilePath)
	if err != nil {
		return err
	}

	p, err := seccomp.Compile(data)
	if err != nil {
		return err
	}
	defer p.Release()

	if p.Skipped() {
		return os.WriteFile(c.Positional.OutPath, nil, 0644)
	}

	out, err := os.Create(c.Positional.OutPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return p.ExportBPF(out)
}

type versionInfoCommand struct{}

func (c *versionInfoCommand) Execute(args []string) error {
	fmt.Println(seccomp.VersionInfo())
	return nil
}

func run(args []string) error {
	parser := flags.NewParser(&struct{}{}, flags.Default)
	if _, err := parser.AddCommand("compile", "Compile a profile", "Compile a syscall-filter profile to a cacheable BPF program.", &compileCommand{}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("version-info", "Print the compiler's cache key", "Print the library version and known-symbol-set hash this build was compiled against.", &versionInfoCommand{}); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if _, ok := err.(*flags.Error); ok {
			os.Exit(1)
		}
		diag.Fatalf("%v", err)
	}
}
