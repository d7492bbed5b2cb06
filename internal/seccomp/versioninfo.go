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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	seccomplib "github.com/seccomp/libseccomp-golang"
)

// listKnownSyscallsFn lists, sorted, the names of the symbolic-constant
// table this build interprets; it does not list syscall names. It is
// overridden in tests so the hash input can be controlled.
var listKnownSyscallsFn = func() []string {
	// libseccomp-golang does not expose an enumeration entry point; the
	// version-info hash is keyed on the symbol table this package
	// actually interprets instead, which is the part a cached profile
	// compilation result needs to be invalidated by.
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// syscallFeaturesHash returns a stable hash over the current build's known
// symbol set, so a change in what this binary can resolve invalidates
// anything that cached a compiled profile keyed on an older VersionInfo.
func syscallFeaturesHash() string {
	h := sha256.New()
	h.Write([]byte(strings.Join(listKnownSyscallsFn(), "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

// VersionInfo identifies the exact combination of library version and
// known-symbol set this binary was built against, for callers that cache a
// compiled profile and need a cache key that invalidates itself.
func VersionInfo() string {
	major, minor, micro := seccomplib.GetLibraryVersion()
	return fmt.Sprintf("%d.%d.%d %s", major, minor, micro, syscallFeaturesHash())
}
