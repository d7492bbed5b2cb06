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
	"strconv"
	"strings"

	"github.com/snapcore/snap-launch/internal/diag"
)

// CompareOp is the argument-comparison operator a rule constraint applies.
type CompareOp int

const (
	CompareEqual CompareOp = iota
	CompareNotEqual
	CompareLess
	CompareLessOrEqual
	CompareGreater
	CompareGreaterOrEqual
)

// operatorPrefixes is ordered by descending prefix length so a longer
// operator (">=") is always matched before a shorter one that would
// otherwise shadow it (">").
var operatorPrefixes = []struct {
	prefix string
	op     CompareOp
}{
	{">=", CompareGreaterOrEqual},
	{"<=", CompareLessOrEqual},
	{"!", CompareNotEqual},
	{">", CompareGreater},
	{"<", CompareLess},
}

// ArgConstraint binds a comparison to one positional syscall argument.
type ArgConstraint struct {
	Position int
	Op       CompareOp
	Value    uint64
}

// Rule is one parsed profile line: a syscall name and up to six positional
// argument constraints.
type Rule struct {
	Syscall string
	Args    []ArgConstraint
}

// maxArgs is the number of positional syscall argument slots a rule line
// may constrain. Syscall-name resolution happens in Compile before
// parseLine is reached, so a name that doesn't exist on this arch never
// makes it here.
const maxArgs = 6

// parseLine parses one already-trimmed, policy-relevant profile line into
// a Rule. The first token is the syscall name; each subsequent token binds
// to the next argument position in order of appearance, "-" occupies a
// position without constraining it, and a bare value decodes per
// decodeValue.
func parseLine(line string) (Rule, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Rule{}, diag.Errorf(diag.InvalidInput, "empty profile line")
	}

	rule := Rule{Syscall: tokens[0]}

	argTokens := tokens[1:]
	if len(argTokens) > maxArgs {
		return Rule{}, diag.Errorf(diag.InvalidInput, "too many arguments in line %q", line)
	}

	for pos, tok := range argTokens {
		if tok == "-" {
			continue
		}

		op, rest := decodeOperator(tok)
		value, err := decodeValue(rest)
		if err != nil {
			return Rule{}, diag.Errorf(diag.InvalidInput, "cannot parse argument %q in line %q: %w", tok, line, err)
		}

		rule.Args = append(rule.Args, ArgConstraint{Position: pos, Op: op, Value: value})
	}

	return rule, nil
}

// decodeOperator splits a token into its comparison operator and the
// remaining value text, defaulting to CompareEqual when no operator
// prefix matches.
func decodeOperator(tok string) (CompareOp, string) {
	for _, p := range operatorPrefixes {
		if strings.HasPrefix(tok, p.prefix) {
			return p.op, tok[len(p.prefix):]
		}
	}
	return CompareEqual, tok
}

// decodeValue decodes the value portion of an argument token: an all-digit
// string parses as a base-10 unsigned integer, anything else is looked up
// in the symbol table. An empty string or a leading '-' is always fatal.
func decodeValue(s string) (uint64, error) {
	if s == "" || s[0] == '-' {
		return 0, diag.Errorf(diag.InvalidInput, "empty or negative value")
	}

	if isAllDigits(s) {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, diag.Errorf(diag.InvalidInput, "value %q out of range: %w", s, err)
		}
		return v, nil
	}

	v, ok := lookupSymbol(s)
	if !ok {
		return 0, diag.Errorf(diag.InvalidInput, "unknown symbolic constant %q", s)
	}
	return v, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
