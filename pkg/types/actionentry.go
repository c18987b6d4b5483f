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

package types

// ActionEntry is one entry in the Fastboot UI's cyclic action menu.
// ImageHandle is opaque to the core; it is whatever the (external) UI
// toolkit returned when it loaded ImageName's artwork.
type ActionEntry struct {
	ImageName   string
	ImageHandle any
	Target      BootTarget
}

// DefaultMenu mirrors libfastboot/fastboot_ui.c's menu_actions[] table:
// start, restartbootloader, recoverymode, reboot, power_off, in that cyclic
// order.
func DefaultMenu() []ActionEntry {
	return []ActionEntry{
		{ImageName: "start", Target: NormalBoot},
		{ImageName: "restartbootloader", Target: Fastboot},
		{ImageName: "recoverymode", Target: Recovery},
		{ImageName: "reboot", Target: Reboot},
		{ImageName: "power_off", Target: PowerOff},
	}
}
