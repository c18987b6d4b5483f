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

// Package fastboot implements component F: the long-running interactive
// service loop, dispatching transport outcomes to image starts, chain-loads
// and terminal power actions.
package fastboot

import (
	"context"

	"github.com/rancher-sandbox/kflinger/pkg/bootstate"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// imageLoader is the slice of pkg/loader.Loader the fastboot loop needs.
type imageLoader interface {
	Load(ctx context.Context, color types.BootState, decision types.Decision) error
}

// Loop drives the table in spec.md §4.F via an explicit switch — never
// syntactic fall-through, see §9 — dispatching each transport outcome to an
// image start, a chain-load, a terminal power action, or back around the
// loop. A transport failure is fatal: Loop pauses so the error stays
// on-screen, halts, and returns. Loop also returns ctx.Err() once ctx is
// done, and nil after a NormalBoot/Recovery sub-target hand-off.
func Loop(ctx context.Context, platform types.Platform, reporter *bootstate.Reporter, ld imageLoader, transport types.FastbootTransport, oem *OEM, logger types.Logger) error {
	if logger == nil {
		logger = types.NopLogger{}
	}

	if err := reporter.Write(types.Red); err != nil {
		logger.Warnf("fastboot: boot-state report before interactive loop failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := transport.PublishVar("off-mode-charge", oem.GetOffModeCharge()); err != nil {
			logger.Warnf("fastboot: publish off-mode-charge failed: %v", err)
		}

		outcome, err := transport.Start()
		if err != nil {
			return fatal(platform, logger, err)
		}

		switch outcome.Kind {
		case types.OutcomeBootImage:
			decision := types.Decision{Target: types.NormalBoot}
			if err := ld.Load(ctx, types.Red, decision); err != nil {
				logger.Warnf("fastboot: boot image start failed: %v", err)
				continue
			}
		case types.OutcomeEFIImage:
			if err := chainEFIImage(platform, logger, outcome.EFIImage); err != nil {
				logger.Warnf("fastboot: EFI image chain-load failed: %v", err)
			}
			continue
		case types.OutcomeSubTarget:
			done, err := dispatchSubTarget(ctx, platform, ld, outcome.SubTarget)
			if err != nil {
				logger.Warnf("fastboot: sub-target %s failed: %v", outcome.SubTarget, err)
				continue
			}
			if done {
				// NormalBoot/Recovery handed off successfully; Start/Halt/
				// Reboot are all expected to never return on the real
				// Platform either, so control does not come back here.
				return nil
			}
			continue
		}
	}
}

func dispatchSubTarget(ctx context.Context, platform types.Platform, ld imageLoader, sub types.BootTarget) (bool, error) {
	switch sub {
	case types.Fastboot:
		if err := platform.WriteVariable(constants.LoaderGUID, constants.VarLoaderEntryOneShot, []byte(constants.LoaderOneShotBootloader)); err != nil {
			return false, err
		}
		return false, platform.Reboot()
	case types.Reboot:
		return false, platform.Reboot()
	case types.PowerOff:
		return false, platform.Halt()
	case types.NormalBoot, types.Recovery:
		return true, ld.Load(ctx, types.Red, types.Decision{Target: sub})
	case types.UnknownTarget:
		return false, nil
	default:
		return false, nil
	}
}

func chainEFIImage(platform types.Platform, logger types.Logger, buf []byte) error {
	handle, err := platform.LoadImageFromBuffer(buf)
	if err != nil {
		return err
	}
	startErr := platform.StartImage(handle)
	if err := platform.UnloadImage(handle); err != nil {
		logger.Warnf("fastboot: unload of chained EFI image failed: %v", err)
	}
	return startErr
}

// fatal pauses so the error is visible on-screen before halting, the
// Go-native form of the original's "leave it on screen for 30s" behavior.
func fatal(platform types.Platform, logger types.Logger, cause error) error {
	logger.Errorf("fastboot: fatal loop exit: %v", cause)
	platform.Stall(constants.FastbootFatalPause)
	if err := platform.Halt(); err != nil {
		logger.Errorf("fastboot: halt after fatal exit failed: %v", err)
	}
	return cause
}
