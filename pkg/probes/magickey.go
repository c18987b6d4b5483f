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
	"bytes"
	"strconv"
	"time"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

func magicKeyTimeout(p types.Platform) time.Duration {
	raw, err := p.ReadVariable(constants.FastbootGUID, constants.VarMagicKeyTimeout)
	if err != nil {
		return constants.MagicKeyTimeoutDefault
	}
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		return constants.MagicKeyTimeoutDefault
	}
	raw = raw[:end]
	ms, err := strconv.Atoi(string(raw))
	if err != nil {
		return constants.MagicKeyTimeoutDefault
	}
	d := time.Duration(ms) * time.Millisecond
	if d < constants.MagicKeyTimeoutMin || d > constants.MagicKeyTimeoutMax {
		return constants.MagicKeyTimeoutDefault
	}
	return d
}

// MagicKey resets the input device, waits up to MagicKeyTimeout for a key
// press, then runs an up-to-8-iteration hold-detection loop: a key that
// survives all 8 iterations (4s) wins Fastboot, a key released partway
// through wins Recovery, and no key at all is NormalBoot. Once decided, the
// probe drains and blocks until the key is released, so a still-held key
// cannot race the next UI.
func MagicKey(p types.Platform) (types.BootTarget, Aux, error) {
	if err := p.ResetInput(); err != nil {
		return types.NormalBoot, Aux{}, nil
	}

	timeout := magicKeyTimeout(p)
	deadline := timeout
	pressed := false
	for elapsed := time.Duration(0); elapsed < deadline; elapsed += constants.MagicKeyPollInterval {
		if _, err := p.ReadKeyNonBlocking(); err == nil {
			pressed = true
			break
		}
		p.Stall(constants.MagicKeyPollInterval)
	}
	if !pressed {
		return types.NormalBoot, Aux{}, nil
	}

	target := types.Fastboot
	for i := 0; i < constants.MagicKeyHoldIterations; i++ {
		p.Stall(constants.MagicKeyHoldInterval)
		if _, err := p.ReadKeyNonBlocking(); err != nil {
			target = types.Recovery
			break
		}
	}

	drainUntilReleased(p)
	return target, Aux{}, nil
}

func drainUntilReleased(p types.Platform) {
	for {
		if _, err := p.ReadKeyNonBlocking(); err != nil {
			return
		}
		p.Stall(constants.MagicKeyPollInterval)
	}
}
