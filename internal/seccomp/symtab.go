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

// Package seccomp compiles a per-application syscall-filter profile into a
// loaded seccomp-bpf program.
package seccomp

import "golang.org/x/sys/unix"

// symbols maps every non-numeric token the profile grammar accepts to its
// kernel value. It mirrors original_source/src/seccomp.c's sc_map_init
// table; the socket domain/type, prctl option and getpriority "which"
// families are the only symbolic namespaces the original grammar supports.
var symbols = map[string]uint64{
	// man 2 socket - domain
	"AF_UNIX":      unix.AF_UNIX,
	"AF_LOCAL":     unix.AF_LOCAL,
	"AF_INET":      unix.AF_INET,
	"AF_INET6":     unix.AF_INET6,
	"AF_IPX":       unix.AF_IPX,
	"AF_NETLINK":   unix.AF_NETLINK,
	"AF_X25":       unix.AF_X25,
	"AF_AX25":      unix.AF_AX25,
	"AF_ATMPVC":    unix.AF_ATMPVC,
	"AF_APPLETALK": unix.AF_APPLETALK,
	"AF_PACKET":    unix.AF_PACKET,
	"AF_ALG":       unix.AF_ALG,

	// man 2 socket - type
	"SOCK_STREAM":    unix.SOCK_STREAM,
	"SOCK_DGRAM":     unix.SOCK_DGRAM,
	"SOCK_SEQPACKET": unix.SOCK_SEQPACKET,
	"SOCK_RAW":       unix.SOCK_RAW,
	"SOCK_RDM":       unix.SOCK_RDM,
	"SOCK_PACKET":    unix.SOCK_PACKET,

	// man 2 prctl
	"PR_CAP_AMBIENT":              uint64(unix.PR_CAP_AMBIENT),
	"PR_CAP_AMBIENT_RAISE":        uint64(unix.PR_CAP_AMBIENT_RAISE),
	"PR_CAP_AMBIENT_LOWER":        uint64(unix.PR_CAP_AMBIENT_LOWER),
	"PR_CAP_AMBIENT_IS_SET":       uint64(unix.PR_CAP_AMBIENT_IS_SET),
	"PR_CAP_AMBIENT_CLEAR_ALL":    uint64(unix.PR_CAP_AMBIENT_CLEAR_ALL),
	"PR_CAPBSET_READ":             uint64(unix.PR_CAPBSET_READ),
	"PR_CAPBSET_DROP":             uint64(unix.PR_CAPBSET_DROP),
	"PR_SET_CHILD_SUBREAPER":      uint64(unix.PR_SET_CHILD_SUBREAPER),
	"PR_GET_CHILD_SUBREAPER":      uint64(unix.PR_GET_CHILD_SUBREAPER),
	"PR_SET_DUMPABLE":             uint64(unix.PR_SET_DUMPABLE),
	"PR_GET_DUMPABLE":             uint64(unix.PR_GET_DUMPABLE),
	"PR_SET_ENDIAN":               uint64(unix.PR_SET_ENDIAN),
	"PR_GET_ENDIAN":               uint64(unix.PR_GET_ENDIAN),
	"PR_SET_FPEMU":                uint64(unix.PR_SET_FPEMU),
	"PR_GET_FPEMU":                uint64(unix.PR_GET_FPEMU),
	"PR_SET_FPEXC":                uint64(unix.PR_SET_FPEXC),
	"PR_GET_FPEXC":                uint64(unix.PR_GET_FPEXC),
	"PR_SET_KEEPCAPS":             uint64(unix.PR_SET_KEEPCAPS),
	"PR_GET_KEEPCAPS":             uint64(unix.PR_GET_KEEPCAPS),
	"PR_MCE_KILL":                 uint64(unix.PR_MCE_KILL),
	"PR_MCE_KILL_GET":             uint64(unix.PR_MCE_KILL_GET),
	"PR_MPX_ENABLE_MANAGEMENT":    uint64(unix.PR_MPX_ENABLE_MANAGEMENT),
	"PR_MPX_DISABLE_MANAGEMENT":   uint64(unix.PR_MPX_DISABLE_MANAGEMENT),
	"PR_SET_MM":                   uint64(unix.PR_SET_MM),
	"PR_SET_MM_START_CODE":        uint64(unix.PR_SET_MM_START_CODE),
	"PR_SET_MM_END_CODE":          uint64(unix.PR_SET_MM_END_CODE),
	"PR_SET_MM_START_DATA":        uint64(unix.PR_SET_MM_START_DATA),
	"PR_SET_MM_END_DATA":          uint64(unix.PR_SET_MM_END_DATA),
	"PR_SET_MM_START_STACK":       uint64(unix.PR_SET_MM_START_STACK),
	"PR_SET_MM_START_BRK":         uint64(unix.PR_SET_MM_START_BRK),
	"PR_SET_MM_BRK":               uint64(unix.PR_SET_MM_BRK),
	"PR_SET_MM_ARG_START":         uint64(unix.PR_SET_MM_ARG_START),
	"PR_SET_MM_ARG_END":           uint64(unix.PR_SET_MM_ARG_END),
	"PR_SET_MM_ENV_START":         uint64(unix.PR_SET_MM_ENV_START),
	"PR_SET_MM_ENV_END":           uint64(unix.PR_SET_MM_ENV_END),
	"PR_SET_MM_AUXV":              uint64(unix.PR_SET_MM_AUXV),
	"PR_SET_MM_EXE_FILE":          uint64(unix.PR_SET_MM_EXE_FILE),
	"PR_SET_NAME":                 uint64(unix.PR_SET_NAME),
	"PR_GET_NAME":                 uint64(unix.PR_GET_NAME),
	"PR_SET_NO_NEW_PRIVS":         uint64(unix.PR_SET_NO_NEW_PRIVS),
	"PR_GET_NO_NEW_PRIVS":         uint64(unix.PR_GET_NO_NEW_PRIVS),
	"PR_SET_PDEATHSIG":            uint64(unix.PR_SET_PDEATHSIG),
	"PR_GET_PDEATHSIG":            uint64(unix.PR_GET_PDEATHSIG),
	"PR_SET_PTRACER":              uint64(unix.PR_SET_PTRACER),
	"PR_SET_SECCOMP":              uint64(unix.PR_SET_SECCOMP),
	"PR_GET_SECCOMP":              uint64(unix.PR_GET_SECCOMP),
	"PR_SET_SECUREBITS":           uint64(unix.PR_SET_SECUREBITS),
	"PR_GET_SECUREBITS":           uint64(unix.PR_GET_SECUREBITS),
	"PR_SET_THP_DISABLE":          uint64(unix.PR_SET_THP_DISABLE),
	"PR_GET_THP_DISABLE":          uint64(unix.PR_GET_THP_DISABLE),
	"PR_TASK_PERF_EVENTS_DISABLE": uint64(unix.PR_TASK_PERF_EVENTS_DISABLE),
	"PR_TASK_PERF_EVENTS_ENABLE":  uint64(unix.PR_TASK_PERF_EVENTS_ENABLE),
	"PR_GET_TID_ADDRESS":          uint64(unix.PR_GET_TID_ADDRESS),
	"PR_SET_TIMERSLACK":           uint64(unix.PR_SET_TIMERSLACK),
	"PR_GET_TIMERSLACK":           uint64(unix.PR_GET_TIMERSLACK),
	"PR_SET_TIMING":               uint64(unix.PR_SET_TIMING),
	"PR_GET_TIMING":               uint64(unix.PR_GET_TIMING),
	"PR_SET_TSC":                  uint64(unix.PR_SET_TSC),
	"PR_GET_TSC":                  uint64(unix.PR_GET_TSC),
	"PR_SET_UNALIGN":              uint64(unix.PR_SET_UNALIGN),
	"PR_GET_UNALIGN":              uint64(unix.PR_GET_UNALIGN),

	// man 2 getpriority
	"PRIO_PROCESS": uint64(unix.PRIO_PROCESS),
	"PRIO_PGRP":    uint64(unix.PRIO_PGRP),
	"PRIO_USER":    uint64(unix.PRIO_USER),
}

// lookupSymbol resolves a non-numeric argument token against the symbol
// table. The boolean result is false on a miss, exactly like a hash-table
// lookup miss in the original table.
func lookupSymbol(name string) (uint64, bool) {
	v, ok := symbols[name]
	return v, ok
}
