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
	"context"
	"fmt"
	"os/exec"

	"golang.org/x/time/rate"

	"github.com/snapcore/snap-launch/internal/diag"
)

var execRunFn = func(helper string, args ...string) error {
	return exec.Command(helper, args...).Run()
}

// AssignDevice runs the out-of-process helper once for one device, blocking
// for its completion. Any non-zero exit or signal termination is reported
// as diag.ChildHelperFailed, exactly as a fatal condition at this stage
// must be.
func AssignDevice(helper, appname string, dev Device) error {
	majorMinor := fmt.Sprintf("%d:%d", dev.Major, dev.Minor)
	if err := execRunFn(helper, "add", appname, dev.Syspath, majorMinor); err != nil {
		return diag.Errorf(diag.ChildHelperFailed, "%s add %s %s %s: %w", helper, appname, dev.Syspath, majorMinor, err)
	}
	return nil
}

// AssignDevices invokes the helper once per device in order, waiting for
// each to finish before spawning the next — exactly one helper invocation
// is ever outstanding. limiter bounds the spawn rate when the combined
// static and hotplug-enumerated device set is large.
func AssignDevices(ctx context.Context, helper, appname string, devices []Device, limiter *rate.Limiter) error {
	for _, dev := range devices {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return diag.Errorf(diag.SystemCallFailed, "rate limiter wait: %w", err)
			}
		}
		if err := AssignDevice(helper, appname, dev); err != nil {
			return err
		}
	}
	return nil
}
