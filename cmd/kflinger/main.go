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

// Command kflinger is the Go-native realization of "the firmware image
// entry": it bootstraps the real Platform, loads the per-device descriptor,
// and runs the decision-and-dispatch state machine to a hand-off, reboot,
// or halt. There is exactly one verb, so unlike the teacher this does not
// reach for cobra (see DESIGN.md).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rancher-sandbox/kflinger/pkg/arbiter"
	"github.com/rancher-sandbox/kflinger/pkg/bcb"
	"github.com/rancher-sandbox/kflinger/pkg/bootstate"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/fallback"
	"github.com/rancher-sandbox/kflinger/pkg/fastboot"
	"github.com/rancher-sandbox/kflinger/pkg/loader"
	"github.com/rancher-sandbox/kflinger/pkg/platform"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kflinger:", err)
		os.Exit(1)
	}
}

func bindFlags() *viper.Viper {
	pflag.String("device", "", "block device carrying misc/boot/recovery/ESP (autodetected via ghw when empty)")
	pflag.String("esp-mount", "", "already-mounted ESP path (recorded only; the platform adapter always parses the ESP off its partition)")
	pflag.String("device-config", "/etc/kflinger/device.yaml", "path to the per-device descriptor YAML")
	pflag.String("log-level", "info", "logrus level name")
	pflag.Parse()

	v := viper.New()
	v.SetEnvPrefix("KFLINGER")
	v.AutomaticEnv()
	_ = v.BindPFlags(pflag.CommandLine)
	return v
}

func loadDeviceInfo(path string) (types.DeviceInfo, error) {
	var info types.DeviceInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("reading device config: %w", err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("parsing device config: %w", err)
	}
	if err := info.Sanitize(); err != nil {
		return info, fmt.Errorf("device config: %w", err)
	}
	return info, nil
}

func run() error {
	v := bindFlags()
	logger := platform.NewLogrusLogger(v.GetString("log-level"))

	device := v.GetString("device")
	if device == "" {
		discovered, err := platform.DiscoverDevice()
		if err != nil {
			return fmt.Errorf("discovering boot device: %w", err)
		}
		device = discovered
		logger.Infof("autodetected boot device %s", device)
	}

	info, err := loadDeviceInfo(v.GetString("device-config"))
	if err != nil {
		return err
	}

	cfg := types.NewConfig(types.WithLogger(logger))
	cfg.DeviceInfo = info
	cfg.Device = device
	cfg.ESPMountPoint = v.GetString("esp-mount")

	real, err := platform.NewReal(cfg, "", append([]string{os.Args[0]}, pflag.Args()...))
	if err != nil {
		return fmt.Errorf("constructing platform: %w", err)
	}
	cfg.Platform = real
	if err := cfg.Sanitize(); err != nil {
		return fmt.Errorf("sanitizing config: %w", err)
	}

	if err := real.WriteVariable(constants.LoaderGUID, constants.VarLoaderVersion, []byte(constants.LoaderVersion)); err != nil {
		logger.Warnf("failed to write loader version: %v", err)
	}

	ctx := context.Background()
	codec := bcb.NewCodec(real, logger)

	decision, err := arbiter.Decide(ctx, real, codec, logger, types.WakeUnknown, real.Argv())
	if err != nil {
		return fmt.Errorf("deciding boot target: %w", err)
	}

	reporter := bootstate.NewReporter(real, nil, logger)
	ld := loader.New(real, noopImageStarter{logger: logger}, platform.NewDevMemReader(), reporter, logger)

	switch decision.Target {
	case types.Fastboot, types.Memory:
		// Memory and Fastboot both land in the interactive fastboot loop
		// (spec.md's top-level diagram), not the fall-back ladder: Fastboot
		// is validated by the OEM keystore rather than by a verified-boot
		// fall-back, and so is a Memory-resident image.
		return runFastboot(ctx, real, ld, reporter, cfg.DeviceInfo, logger, decision)
	default:
		color, err := fallback.Run(ctx, ld, logger, decision)
		if err != nil {
			logger.Errorf("fall-back ladder exhausted at color %s: %v", color, err)
			return runFastboot(ctx, real, ld, reporter, cfg.DeviceInfo, logger, types.Decision{})
		}
		return nil
	}
}

// runFastboot enters the interactive fastboot loop. For a Memory decision it
// first tries to start the pre-resident image at target_address directly,
// the one case that doesn't wait on the transport to hand it something to
// boot; a failure there (or a plain Fastboot entry) falls through to the
// ordinary transport-driven loop.
func runFastboot(ctx context.Context, real *platform.Real, ld *loader.Loader, reporter *bootstate.Reporter, info types.DeviceInfo, logger types.Logger, decision types.Decision) error {
	oem := fastboot.NewOEM(real, info)
	transport := noopFastbootTransport{}

	if decision.Target == types.Memory {
		err := ld.Load(ctx, types.Red, decision)
		if err == nil {
			return nil
		}
		logger.Warnf("fastboot: pre-resident memory image at %#x failed to start, falling back to interactive fastboot: %v", decision.TargetAddress, err)
	}

	return fastboot.Loop(ctx, real, reporter, ld, transport, oem, logger)
}

// noopImageStarter and noopFastbootTransport stand in for the Android
// boot-image hand-off and the Fastboot wire transport, both explicit
// external collaborators (spec.md §1) with no in-module implementation.
type noopImageStarter struct {
	logger types.Logger
}

func (n noopImageStarter) StartAndroidImage(buf []byte, chargingHandoff bool) error {
	n.logger.Infof("would start android boot image (%d bytes, charging=%v); no image starter wired", len(buf), chargingHandoff)
	return nil
}

type noopFastbootTransport struct{}

func (noopFastbootTransport) Start() (types.Outcome, error) {
	return types.Outcome{}, types.NewFirmwareError("fastboot.Start", types.KindNotSupported, fmt.Errorf("no fastboot transport wired"))
}

func (noopFastbootTransport) PublishVar(name, value string) error {
	return nil
}
