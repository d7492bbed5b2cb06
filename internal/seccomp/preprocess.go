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

// preprocessResult carries the outcome of the first pass over a profile:
// whether either directive that short-circuits rule compilation appeared.
type preprocessResult struct {
	unrestricted bool
	complain     bool
}

// preprocess scans every policy-relevant line of a profile for the
// "@unrestricted" and "@complain" directives. @complain is provisionally
// treated identically to @unrestricted: this compiler has no logging mode
// to downgrade into yet.
func preprocess(lines []string) (preprocessResult, error) {
	var pre preprocessResult

	for i, raw := range lines {
		line, relevant, err := relevantLine(raw, i+1)
		if err != nil {
			return preprocessResult{}, err
		}
		if !relevant {
			continue
		}

		switch line {
		case "@unrestricted":
			pre.unrestricted = true
		case "@complain":
			pre.complain = true
		}
	}

	return pre, nil
}

// skipsCompilation reports whether rule compilation must be skipped
// entirely in favor of an empty, permissive filter.
func (p preprocessResult) skipsCompilation() bool {
	return p.unrestricted || p.complain
}
