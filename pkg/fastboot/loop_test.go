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
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rancher-sandbox/kflinger/pkg/bootstate"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/fastboot"
	"github.com/rancher-sandbox/kflinger/pkg/platform"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// scriptedTransport replays a fixed sequence of Outcomes, returning an error
// once the script is exhausted so Loop always terminates in a test.
type scriptedTransport struct {
	outcomes    []types.Outcome
	i           int
	publishedOK []string
}

func (t *scriptedTransport) Start() (types.Outcome, error) {
	if t.i >= len(t.outcomes) {
		return types.Outcome{}, types.NewFirmwareError("Start", types.KindOther, nil)
	}
	o := t.outcomes[t.i]
	t.i++
	return o, nil
}

func (t *scriptedTransport) PublishVar(name, value string) error {
	t.publishedOK = append(t.publishedOK, name+"="+value)
	return nil
}

type recordingLoader struct {
	calls []types.Decision
}

func (l *recordingLoader) Load(_ context.Context, _ types.BootState, decision types.Decision) error {
	l.calls = append(l.calls, decision)
	return nil
}

var _ = Describe("Loop", func() {
	It("writes BootState Red before the first transport call", func() {
		// Real's Halt is expected to never return on success; the Fake does,
		// so the loop comes back around for another Start() and (nothing
		// further scripted) ends on the fatal path. The BootState write this
		// test cares about happens unconditionally before that.
		fake := platform.NewFake()
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{outcomes: []types.Outcome{
			{Kind: types.OutcomeSubTarget, SubTarget: types.PowerOff},
		}}
		loader := &recordingLoader{}

		_ = fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)

		raw, rerr := fake.ReadVariable(constants.FastbootGUID, constants.VarBootState)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(raw).To(Equal([]byte{byte(types.Red)}))
		Expect(fake.HaltCalls).To(BeNumerically(">=", 1))
	})

	It("dispatches OutcomeBootImage through the loader and keeps looping", func() {
		fake := platform.NewFake()
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{outcomes: []types.Outcome{
			{Kind: types.OutcomeBootImage},
			{Kind: types.OutcomeSubTarget, SubTarget: types.Recovery},
		}}
		loader := &recordingLoader{}

		err := fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.calls).To(HaveLen(2))
		Expect(loader.calls[0].Target).To(Equal(types.NormalBoot))
		Expect(loader.calls[1].Target).To(Equal(types.Recovery))
	})

	It("returns done on NormalBoot/Recovery sub-targets after loading", func() {
		fake := platform.NewFake()
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{outcomes: []types.Outcome{
			{Kind: types.OutcomeSubTarget, SubTarget: types.Recovery},
		}}
		loader := &recordingLoader{}

		err := fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loader.calls).To(HaveLen(1))
		Expect(loader.calls[0].Target).To(Equal(types.Recovery))
	})

	It("sets the bootloader one-shot and reboots on a Fastboot sub-target", func() {
		// Real's Reboot is expected to never return on success; the Fake
		// does return, so the loop comes back around and (with nothing
		// further scripted) hits the fatal path on the next Start call.
		// What this test actually asserts is the one-shot write + reboot
		// that happen before that.
		fake := platform.NewFake()
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{outcomes: []types.Outcome{
			{Kind: types.OutcomeSubTarget, SubTarget: types.Fastboot},
		}}
		loader := &recordingLoader{}

		_ = fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)
		Expect(fake.RebootCalls).To(Equal(1))

		raw, rerr := fake.ReadVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(constants.LoaderOneShotBootloader))
	})

	It("publishes off-mode-charge ahead of every transport Start call", func() {
		fake := platform.NewFake()
		Expect(fake.WriteVariable(constants.FastbootGUID, constants.VarOffModeCharge, []byte("0"))).To(Succeed())
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{outcomes: []types.Outcome{
			{Kind: types.OutcomeSubTarget, SubTarget: types.Recovery},
		}}
		loader := &recordingLoader{}

		Expect(fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)).To(Succeed())
		Expect(transport.publishedOK).To(ContainElement("off-mode-charge=1"))
	})

	It("pauses and halts on a fatal transport error", func() {
		fake := platform.NewFake()
		reporter := bootstate.NewReporter(fake, nil, nil)
		oem := fastboot.NewOEM(fake, types.DeviceInfo{Product: "p"})
		transport := &scriptedTransport{} // empty script: first Start() call fails
		loader := &recordingLoader{}

		err := fastboot.Loop(context.Background(), fake, reporter, loader, transport, oem, nil)
		Expect(err).To(HaveOccurred())
		Expect(fake.HaltCalls).To(Equal(1))
		Expect(fake.StallCalls).To(HaveLen(1))
		Expect(fake.StallCalls[0]).To(Equal(constants.FastbootFatalPause))
	})
})
