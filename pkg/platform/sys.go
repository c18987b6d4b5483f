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

package platform

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// Real is the production Platform, composed across this package's files:
// efivar.go for variable access, disk.go for partitions/ESP, and this file
// for timing, input and the two terminal operations.
type Real struct {
	cfg      *types.Config
	keyInput *os.File
	argv     []string
}

// NewReal builds the production Platform adapter. keyInputPath is the
// console device polled for magic-key input (e.g. /dev/input/event0 on a
// Linux EFI stub); it may be empty when no console key probe is wired.
func NewReal(cfg *types.Config, keyInputPath string, argv []string) (*Real, error) {
	r := &Real{cfg: cfg, argv: argv}
	if keyInputPath != "" {
		f, err := os.OpenFile(keyInputPath, os.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			return nil, types.NewFirmwareError("NewReal:keyInput", types.KindNotFound, err)
		}
		r.keyInput = f
	}
	return r, nil
}

func (r *Real) Stall(d time.Duration) {
	time.Sleep(d)
}

func (r *Real) ResetInput() error {
	if r.keyInput == nil {
		return nil
	}
	buf := make([]byte, 64)
	for {
		if _, err := r.keyInput.Read(buf); err != nil {
			break
		}
	}
	return nil
}

// ReadKeyNonBlocking drains a single input event, decoded the way the
// original's console-in protocol reported key presses: presence of a byte
// means a key is down, its value is the scan code.
func (r *Real) ReadKeyNonBlocking() (types.Key, error) {
	if r.keyInput == nil {
		return types.Key{}, types.NewFirmwareError("ReadKeyNonBlocking", types.KindNotReady, nil)
	}
	buf := make([]byte, 1)
	n, err := r.keyInput.Read(buf)
	if err != nil || n == 0 {
		return types.Key{}, types.NewFirmwareError("ReadKeyNonBlocking", types.KindNotReady, nil)
	}
	return types.Key{Code: rune(buf[0])}, nil
}

// Reboot and Halt call the real power-management syscalls; per the Platform
// contract they are expected to never return on success.
func (r *Real) Reboot() error {
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return types.NewFirmwareError("Reboot", types.KindOther, err)
	}
	return nil
}

func (r *Real) Halt() error {
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_POWER_OFF); err != nil {
		return types.NewFirmwareError("Halt", types.KindOther, err)
	}
	return nil
}

func (r *Real) Argv() []string {
	return r.argv
}

var _ types.Platform = (*Real)(nil)
