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

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/fastboot"
	"github.com/rancher-sandbox/kflinger/pkg/platform"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

var _ = Describe("OEM", func() {
	var fake *platform.Fake
	var info types.DeviceInfo

	BeforeEach(func() {
		fake = platform.NewFake()
		info = types.DeviceInfo{Product: "kflinger-dev", Serial: "SN1"}
		Expect(info.Sanitize()).To(Succeed())
	})

	It("publishes off-mode-charge as \"1\" after \"oem off-mode-charge 0\"", func() {
		oem := fastboot.NewOEM(fake, info)
		_, err := oem.Command("off-mode-charge", []string{"0"})
		Expect(err).NotTo(HaveOccurred())
		Expect(oem.GetOffModeCharge()).To(Equal("1"))
	})

	It("rejects a malformed off-mode-charge argument", func() {
		oem := fastboot.NewOEM(fake, info)
		_, err := oem.Command("off-mode-charge", []string{"maybe"})
		Expect(err).To(HaveOccurred())
		Expect(types.KindOf(err)).To(Equal(types.KindInvalidParameter))
	})

	It("writes the bootloader one-shot variable and reboots on reboot-bootloader", func() {
		oem := fastboot.NewOEM(fake, info)
		_, err := oem.Command("reboot-bootloader", nil)
		Expect(err).NotTo(HaveOccurred())

		raw, rerr := fake.ReadVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(constants.LoaderOneShotBootloader))
		Expect(fake.RebootCalls).To(Equal(1))
	})

	It("reports garbage-disk and get-hashes as not supported", func() {
		oem := fastboot.NewOEM(fake, info)
		_, err := oem.Command("garbage-disk", nil)
		Expect(types.KindOf(err)).To(Equal(types.KindNotSupported))

		_, err = oem.Command("get-hashes", nil)
		Expect(types.KindOf(err)).To(Equal(types.KindNotSupported))
	})

	It("resolves getvar names against DeviceInfo", func() {
		oem := fastboot.NewOEM(fake, info)
		v, ok := oem.GetVar("product")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("kflinger-dev"))

		_, ok = oem.GetVar("nonexistent")
		Expect(ok).To(BeFalse())
	})
})
