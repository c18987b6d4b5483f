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

	"github.com/rancher-sandbox/kflinger/pkg/bcb"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/platform"
	"github.com/rancher-sandbox/kflinger/pkg/probes"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

func writeMiscCommand(fake *platform.Fake, command string) {
	writeMiscCommandWithStatus(fake, command, "")
}

// writeMiscCommandWithStatus additionally seeds a non-empty status field, so
// tests can assert it gets zeroed and persisted back regardless of which
// command branch handled the read.
func writeMiscCommandWithStatus(fake *platform.Fake, command, status string) {
	raw := make([]byte, 64+64+32+4)
	copy(raw, command+"\x00")
	copy(raw[64:], status+"\x00")
	ExpectWithOffset(1, fake.WritePartition(constants.MiscPartitionGUID, raw)).To(Succeed())
}

var _ = Describe("BCB probe", func() {
	var fake *platform.Fake
	var codec *bcb.Codec

	BeforeEach(func() {
		fake = platform.NewFake()
		codec = bcb.NewCodec(fake, nil)
	})

	It("yields NormalBoot when the misc partition is unreadable", func() {
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})

	It("yields NormalBoot on an empty command and still persists a zeroed status", func() {
		writeMiscCommandWithStatus(fake, "", "stale-status-from-prior-boot")
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))

		raw, err := fake.ReadPartition(constants.MiscPartitionGUID)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw[64:128]).To(Equal(make([]byte, 64)), "status field must have been zeroed on disk even with no recognized command prefix")
	})

	It("maps boot-recovery to a persistent Recovery decision", func() {
		writeMiscCommand(fake, "boot-recovery")
		target, aux, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Recovery))
		Expect(aux.OneShot).To(BeFalse())
	})

	It("persists the zeroed status field back for a persistent boot- command", func() {
		writeMiscCommandWithStatus(fake, "boot-recovery", "stale-status-from-prior-boot")
		_, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())

		reread, err := codec.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(reread.Command()).To(Equal("boot-recovery"), "boot- (non-one-shot) commands survive the write-back")

		raw, err := fake.ReadPartition(constants.MiscPartitionGUID)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw[64:128]).To(Equal(make([]byte, 64)), "status field must have been zeroed on disk, not just in memory")
	})

	It("persists the zeroed status field back even for an unrecognized command", func() {
		writeMiscCommandWithStatus(fake, "boot-spaceship", "stale-status-from-prior-boot")
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))

		raw, err := fake.ReadPartition(constants.MiscPartitionGUID)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw[64:128]).To(Equal(make([]byte, 64)), "status field must have been zeroed on disk, not just in memory")
	})

	It("maps bootonce-recovery to a one-shot Recovery decision and clears the command", func() {
		writeMiscCommand(fake, "bootonce-recovery")
		target, aux, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Recovery))
		Expect(aux.OneShot).To(BeTrue())

		reread, err := codec.Read()
		Expect(err).NotTo(HaveOccurred())
		Expect(reread.Command()).To(BeEmpty())
	})

	It("maps an ESP image path of length <= 4 to NormalBoot (malformed path)", func() {
		writeMiscCommand(fake, `boot-\a`)
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})

	It("maps an ESP .img path that exists to EspBootImage", func() {
		fake.PutFile(`\fastboot.img`, []byte{0xde, 0xad})
		writeMiscCommand(fake, `boot-\fastboot.img`)
		target, aux, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.EspBootImage))
		Expect(aux.TargetPath).To(Equal(`\fastboot.img`))
	})

	It("maps an ESP .efi path that exists to EspEfiBinary", func() {
		fake.PutFile(`\image.efi`, []byte{0xde, 0xad})
		writeMiscCommand(fake, `boot-\image.efi`)
		target, aux, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.EspEfiBinary))
		Expect(aux.TargetPath).To(Equal(`\image.efi`))
	})

	It("maps an ESP path that does not exist on the ESP back to NormalBoot", func() {
		writeMiscCommand(fake, `boot-\missing.img`)
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})

	It("maps boot-fastboot and boot-bootloader both to Fastboot", func() {
		writeMiscCommand(fake, "boot-fastboot")
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Fastboot))

		writeMiscCommand(fake, "boot-bootloader")
		target, _, err = probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.Fastboot))
	})

	It("falls back to NormalBoot on an unrecognized command target", func() {
		writeMiscCommand(fake, "boot-spaceship")
		target, _, err := probes.BCB(codec)
		Expect(err).NotTo(HaveOccurred())
		Expect(target).To(Equal(types.NormalBoot))
	})
})
