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
	"strings"

	"github.com/snapcore/snap-launch/internal/diag"
)

// maxLineLength is the longest policy-relevant line this grammar accepts.
const maxLineLength = 81

// splitLines breaks raw profile text into lines without a trailing newline,
// the way bufio.Scanner would but without pulling in its token-size limits.
func splitLines(profile []byte) []string {
	text := strings.ReplaceAll(string(profile), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// relevantLine trims trailing whitespace from line and reports whether it
// carries policy content: comments (leading '#') and blank lines are not
// relevant. A relevant line longer than maxLineLength is fatal.
func relevantLine(line string, lineno int) (string, bool, error) {
	if strings.HasPrefix(line, "#") {
		return "", false, nil
	}

	trimmed := strings.TrimRight(line, " \t\r\n")
	if trimmed == "" {
		return "", false, nil
	}

	if len(trimmed) > maxLineLength {
		return "", false, diag.Errorf(diag.InvalidInput,
			"seccomp filter line %d was too long (%d characters max)", lineno, maxLineLength)
	}

	return trimmed, true, nil
}
