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

// FastbootSentinel checks for \force_fastboot at the ESP root. It never
// deletes the sentinel; an operator or provisioning tool owns its lifetime.
func FastbootSentinel(p types.Platform) (types.BootTarget, Aux, error) {
	if p.FileExists(constants.ESPForceFastbootSentinel) {
		return types.Fastboot, Aux{}, nil
	}
	return types.NormalBoot, Aux{}, nil
}
