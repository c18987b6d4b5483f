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

// WakeSource is the event that caused this power-on, as reported by platform
// firmware. Only the two charger values are distinguished by the core; every
// other platform value is treated as "not a charger".
type WakeSource int

const (
	WakeUnknown WakeSource = iota
	WakePowerButton
	WakeUsbChargerInserted
	WakeAcDcChargerInserted
	WakeRTCAlarm
)

// IsCharger reports whether this wake source should be treated as a charger
// insertion event by the charge-mode probe.
func (w WakeSource) IsCharger() bool {
	return w == WakeUsbChargerInserted || w == WakeAcDcChargerInserted
}
