/*
Copyright © 2022 - 2024 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package probes

import (
	"strings"

	"github.com/rancher-sandbox/kflinger/pkg/bcb"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// BCB reads the bootloader control block, maps its command field to a
// BootTarget, and when the command is a `bootonce-` entry clears it in
// memory and writes the record back (best-effort) before returning, so the
// one-shot fires at most once (spec.md §4.B, property P2).
func BCB(c *bcb.Codec) (types.BootTarget, Aux, error) {
	rec, err := c.Read()
	if err != nil {
		return types.NormalBoot, Aux{}, nil
	}
	cmd := rec.Command()

	var name string
	var oneShot bool
	matched := true
	switch {
	case strings.HasPrefix(cmd, "bootonce-"):
		name = strings.TrimPrefix(cmd, "bootonce-")
		oneShot = true
		rec.ClearCommand()
	case strings.HasPrefix(cmd, "boot-"):
		name = strings.TrimPrefix(cmd, "boot-")
		oneShot = false
	default:
		matched = false
	}

	// Read already zeroed the in-memory status field; persist that
	// unconditionally, matching check_bcb()'s unconditional write_bcb()
	// after every successful read, not just the bootonce- case.
	if werr := c.WriteBack(rec); werr != nil {
		c.Logger.Warnf("bcb probe: best-effort write-back failed: %v", werr)
	}

	if !matched {
		return types.NormalBoot, Aux{}, nil
	}

	return mapBCBTargetName(c, name, oneShot)
}

func mapBCBTargetName(c *bcb.Codec, name string, oneShot bool) (types.BootTarget, Aux, error) {
	switch {
	case strings.HasPrefix(name, `\`):
		if len(name) <= 4 {
			return types.NormalBoot, Aux{}, nil
		}
		if !c.Platform.FileExists(name) {
			return types.NormalBoot, Aux{}, nil
		}
		if strings.EqualFold(name[len(name)-4:], ".efi") {
			return types.EspEfiBinary, Aux{TargetPath: name, OneShot: oneShot}, nil
		}
		return types.EspBootImage, Aux{TargetPath: name, OneShot: oneShot}, nil
	case name == "fastboot", name == "bootloader":
		return types.Fastboot, Aux{OneShot: oneShot}, nil
	case name == "recovery":
		return types.Recovery, Aux{OneShot: oneShot}, nil
	default:
		c.Logger.Warnf("bcb probe: unrecognized command target %q", name)
		return types.NormalBoot, Aux{}, nil
	}
}
