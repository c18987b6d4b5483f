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
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// MenuEvent is a decoded UI navigation event, the Go-native analog of
// fastboot_ui.c's ui_read_input() EV_UP/EV_DOWN constants.
type MenuEvent int

const (
	EventNone MenuEvent = iota
	EventUp
	EventDown
)

// Menu models the cyclic ActionEntry menu (start/restartbootloader/
// recoverymode/reboot/power_off). Pixel/font drawing stays behind
// types.MenuRenderer, the graphical UI toolkit being an explicit Non-goal.
type Menu struct {
	Entries  []types.ActionEntry
	current  int
	Renderer types.MenuRenderer
	Info     types.DeviceInfo
}

func NewMenu(renderer types.MenuRenderer, info types.DeviceInfo) *Menu {
	return &Menu{Entries: types.DefaultMenu(), Renderer: renderer, Info: info}
}

// HandleEvent mirrors fastboot_ui_event_handler(): EV_UP selects the
// current entry's target; EV_DOWN advances the cyclic selection and
// redraws, then — just as the original's case falls through into its
// default's no-op break — yields no target either, same as every other
// event. Both paths converge on UnknownTarget; that convergence is
// preserved here rather than "fixed" (see the design note on the original's
// fall-through).
func (m *Menu) HandleEvent(ev MenuEvent) types.BootTarget {
	switch ev {
	case EventUp:
		return m.Entries[m.current].Target
	case EventDown:
		m.current = (m.current + 1) % len(m.Entries)
		if m.Renderer != nil {
			if err := m.Renderer.Draw(m.Entries, m.current, m.Info); err != nil {
				return types.UnknownTarget
			}
		}
		return types.UnknownTarget
	default:
		return types.UnknownTarget
	}
}
