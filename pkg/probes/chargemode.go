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
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// ChargeMode reports Charger when off-mode-charge is enabled (value "0",
// see §9's note on the variable's inverted polarity) and the wake source
// that brought the device up was a charger event.
func ChargeMode(p types.Platform, wake types.WakeSource) (types.BootTarget, Aux, error) {
	raw, err := p.ReadVariable(constants.FastbootGUID, constants.VarOffModeCharge)
	if err != nil {
		return types.NormalBoot, Aux{}, nil
	}
	enabled := len(raw) > 0 && raw[0] == '0'
	if enabled && wake.IsCharger() {
		return types.Charger, Aux{}, nil
	}
	return types.NormalBoot, Aux{}, nil
}
