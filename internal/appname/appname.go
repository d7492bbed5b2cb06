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

// Package appname validates the application-identifier character class
// (§3 of the spec), ported from original_source/src/main.c's
// verify_appname (there a POSIX regex, here a compiled regexp.Regexp built
// once at init).
package appname

import "regexp"

// pattern is ^[a-z0-9][a-z0-9+._-]+$: a first character restricted to
// lowercase letters and digits, followed by one or more characters drawn
// from a slightly wider class. Note the trailing '+' in the original regex
// requires at least one character after the first, so single-character
// names are invalid.
var pattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+._-]+$`)

// Valid reports whether appname matches the application-identifier
// character class. It is pure and side-effect free; callers that need the
// fatal-and-abort behavior described in §4.A build it on top of this.
func Valid(appname string) bool {
	return pattern.MatchString(appname)
}
