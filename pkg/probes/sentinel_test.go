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

var _ = Describe("FastbootSentinel", func() {
	It("yields NormalBoot when the sentinel file is absent", func() {
		fake := platform.NewFake()
		target, _, err := probes.FastbootSentinel(fake)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})

	It("yields Fastboot when the sentinel file exists", func() {
		fake := platform.NewFake()
		fake.PutFile(constants.ESPForceFastbootSentinel, nil)
		target, _, err := probes.FastbootSentinel(fake)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Fastboot))
	})
})
