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

package probes_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/platform"
	"github.com/rancher-sandbox/kflinger/pkg/probes"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

var _ = Describe("LoaderEntryOneShot", func() {
	var fake *platform.Fake

	BeforeEach(func() {
		fake = platform.NewFake()
	})

	It("yields NormalBoot when the variable is absent", func() {
		target, _, err := probes.LoaderEntryOneShot(fake, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})

	It("maps charging to Charger and clears the variable", func() {
		Expect(fake.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte(constants.LoaderOneShotCharging))).To(Succeed())
		target, aux, err := probes.LoaderEntryOneShot(fake, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Charger))
		Expect(aux.OneShot).To(BeTrue())

		_, rerr := fake.ReadVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
		Expect(types.IsNotFound(rerr)).To(BeTrue())
	})

	It("maps bootloader to Fastboot", func() {
		Expect(fake.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte(constants.LoaderOneShotBootloader))).To(Succeed())
		target, _, err := probes.LoaderEntryOneShot(fake, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Fastboot))
	})

	It("maps recovery to Recovery", func() {
		Expect(fake.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte(constants.LoaderOneShotRecovery))).To(Succeed())
		target, _, err := probes.LoaderEntryOneShot(fake, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Recovery))
	})

	It("degrades to NormalBoot on an unrecognized value, still clearing it", func() {
		Expect(fake.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte("nonsense"))).To(Succeed())
		target, _, err := probes.LoaderEntryOneShot(fake, types.NopLogger{})
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))

		_, rerr := fake.ReadVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
		Expect(types.IsNotFound(rerr)).To(BeTrue())
	})
})
