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

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// LoaderEntryOneShot reads LoaderEntryOneShot then unconditionally clears
// it, whatever its value, so a stale entry can never be observed twice.
func LoaderEntryOneShot(p types.Platform, logger types.Logger) (types.BootTarget, Aux, error) {
	raw, err := p.ReadVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
	_ = p.DeleteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
	if err != nil {
		return types.NormalBoot, Aux{}, nil
	}
	if end := bytes.IndexByte(raw, 0); end >= 0 {
		raw = raw[:end]
	}
	value := string(raw)

	switch value {
	case "":
		return types.NormalBoot, Aux{}, nil
	case constants.LoaderOneShotFastboot, constants.LoaderOneShotBootloader:
		return types.Fastboot, Aux{OneShot: true}, nil
	case constants.LoaderOneShotRecovery:
		return types.Recovery, Aux{OneShot: true}, nil
	case constants.LoaderOneShotCharging:
		return types.Charger, Aux{OneShot: true}, nil
	default:
		logger.Warnf("loader one-shot probe: unrecognized entry %q", value)
		return types.NormalBoot, Aux{}, nil
	}
}
