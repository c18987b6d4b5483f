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

package fastboot

import (
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// Vars wraps the off-mode-charge variable's inverted-polarity storage
// convention (§9): the stored byte is "0" when charge mode should be
// entered and "1" otherwise, exactly as libkernelflinger's
// get_current_off_mode_charge/set_off_mode_charge treat it.
type Vars struct {
	Platform types.Platform
}

// ShouldEnterChargeMode reports the charge-probe's own enabled flag: true
// when the stored byte is "0".
func (v Vars) ShouldEnterChargeMode() bool {
	raw, err := v.Platform.ReadVariable(constants.FastbootGUID, constants.VarOffModeCharge)
	if err != nil || len(raw) == 0 {
		return false
	}
	return raw[0] == '0'
}

// SetOffModeCharge stores "1" when enabled (do not enter charge mode:
// normal off-mode-charge behavior is disabled) and "0" otherwise, matching
// set_off_mode_charge's val selection exactly.
func (v Vars) SetOffModeCharge(enabled bool) error {
	val := []byte("1")
	if !enabled {
		val = []byte("0")
	}
	return v.Platform.WriteVariable(constants.FastbootGUID, constants.VarOffModeCharge, val)
}
