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

package fastboot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher-sandbox/kflinger/pkg/fastboot"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

var _ = Describe("Menu", func() {
	It("EV_UP selects the currently-highlighted entry's target", func() {
		m := fastboot.NewMenu(nil, types.DeviceInfo{})
		Expect(m.HandleEvent(fastboot.EventUp)).To(Equal(types.NormalBoot))
	})

	It("EV_DOWN advances the selection and converges on UnknownTarget, same as every other event", func() {
		m := fastboot.NewMenu(nil, types.DeviceInfo{})
		Expect(m.HandleEvent(fastboot.EventDown)).To(Equal(types.UnknownTarget))
		// Having advanced once, EV_UP now selects the second entry.
		Expect(m.HandleEvent(fastboot.EventUp)).To(Equal(types.Fastboot))
	})

	It("cycles back to the first entry after advancing past the last", func() {
		m := fastboot.NewMenu(nil, types.DeviceInfo{})
		for range m.Entries {
			m.HandleEvent(fastboot.EventDown)
		}
		Expect(m.HandleEvent(fastboot.EventUp)).To(Equal(types.NormalBoot))
	})

	It("yields UnknownTarget for an unrecognized event, same as EV_DOWN", func() {
		m := fastboot.NewMenu(nil, types.DeviceInfo{})
		Expect(m.HandleEvent(fastboot.EventNone)).To(Equal(types.UnknownTarget))
	})
})
