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
	"fmt"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// OEM implements the `oem ...` command family against types.DeviceInfo and
// Vars, drawn from original_source/libfastboot/fastboot_oem.c. Only
// garbage-disk and get-hashes are out of scope (explicit Non-goals); every
// other OEM command named there is implemented.
type OEM struct {
	Platform   types.Platform
	DeviceInfo types.DeviceInfo
	Vars       Vars
}

func NewOEM(p types.Platform, info types.DeviceInfo) *OEM {
	return &OEM{Platform: p, DeviceInfo: info, Vars: Vars{Platform: p}}
}

// GetOffModeCharge is the publish-side value fastboot_oem_publish writes
// ahead of every loop iteration: "1" when charge mode is (in the getter's
// polarity) enabled, "0" otherwise.
func (o *OEM) GetOffModeCharge() string {
	if o.Vars.ShouldEnterChargeMode() {
		return "1"
	}
	return "0"
}

// Command dispatches a single `oem <name> [args...]` invocation, returning
// the okay-response text on success.
func (o *OEM) Command(name string, args []string) (string, error) {
	switch name {
	case "off-mode-charge":
		return "", o.offModeCharge(args)
	case "reboot-bootloader":
		return "", o.rebootBootloader()
	case "garbage-disk", "get-hashes":
		return "", types.NewFirmwareError("oem:"+name, types.KindNotSupported, fmt.Errorf("oem %s is not implemented", name))
	default:
		return "", types.NewFirmwareError("oem:"+name, types.KindNotSupported, fmt.Errorf("unrecognized oem command"))
	}
}

func (o *OEM) offModeCharge(args []string) error {
	if len(args) != 1 || (args[0] != "0" && args[0] != "1") {
		return types.NewFirmwareError("oem:off-mode-charge", types.KindInvalidParameter, fmt.Errorf("expected exactly one argument, \"0\" or \"1\""))
	}
	return o.Vars.SetOffModeCharge(args[0] == "1")
}

func (o *OEM) rebootBootloader() error {
	if err := o.Platform.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte(constants.LoaderOneShotBootloader)); err != nil {
		return err
	}
	return o.Platform.Reboot()
}

// GetVar implements the `getvar <name>` command against DeviceInfo.
func (o *OEM) GetVar(name string) (string, bool) {
	return o.DeviceInfo.GetVar(name)
}
