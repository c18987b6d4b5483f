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

// Package loader implements component E: given a Decision, source the
// image bytes (GPT partition, ESP file, or RAM) and hand off to the
// Android image starter or the EFI chain-loader.
package loader

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rancher-sandbox/kflinger/pkg/bootstate"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// Loader sources and dispatches a Decision's image. The Android boot-image
// parser/kernel hand-off stays behind the narrow types.ImageStarter
// collaborator, an explicit Non-goal of this module.
type Loader struct {
	Platform types.Platform
	Starter  types.ImageStarter
	Memory   types.MemoryReader
	Reporter *bootstate.Reporter
	Logger   types.Logger
}

func New(p types.Platform, starter types.ImageStarter, memory types.MemoryReader, reporter *bootstate.Reporter, logger types.Logger) *Loader {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Loader{Platform: p, Starter: starter, Memory: memory, Reporter: reporter, Logger: logger}
}

// Load implements spec.md §4.E's dispatch table, then writes BootState and
// starts the image with the charging hand-off flag set only for Charger.
//
// EspEfiBinary is handled entirely inside chainEspEfiBinary: that path loads,
// starts and reboots on another UEFI image, so there is no Android image
// buffer to hand to the Starter and Load returns as soon as it completes (or
// fails) instead of falling through to StartAndroidImage.
func (l *Loader) Load(ctx context.Context, color types.BootState, decision types.Decision) error {
	if decision.Target == types.EspEfiBinary {
		if err := l.Reporter.Write(color); err != nil {
			l.Logger.Warnf("loader: boot-state report failed: %v", err)
		}
		return l.chainEspEfiBinary(decision)
	}

	buf, err := l.fetch(decision)
	if err != nil {
		return err
	}

	if err := l.Reporter.Write(color); err != nil {
		l.Logger.Warnf("loader: boot-state report failed: %v", err)
	}

	chargingHandoff := decision.Target == types.Charger
	if err := l.Starter.StartAndroidImage(buf, chargingHandoff); err != nil {
		return errors.Wrap(err, "loader: start android image")
	}
	return nil
}

func (l *Loader) fetch(decision types.Decision) ([]byte, error) {
	switch decision.Target {
	case types.NormalBoot, types.Charger:
		return l.Platform.ReadPartition(constants.BootPartitionGUID)
	case types.Recovery:
		return l.Platform.ReadPartition(constants.RecoveryPartitionGUID)
	case types.EspBootImage:
		return l.fetchEspBootImage(decision)
	case types.Memory:
		return l.fetchMemory(decision)
	default:
		return nil, types.NewFirmwareError("loader.Load", types.KindInvalidParameter, errors.Errorf("unsupported target %s", decision.Target))
	}
}

func (l *Loader) fetchEspBootImage(decision types.Decision) ([]byte, error) {
	buf, err := l.Platform.FileRead(decision.TargetPath)
	if err != nil {
		return nil, errors.Wrap(err, "loader: read ESP boot image")
	}
	if decision.OneShot {
		if err := l.Platform.FileDelete(decision.TargetPath); err != nil {
			l.Logger.Warnf("loader: one-shot delete of %s failed: %v", decision.TargetPath, err)
		}
	}
	return buf, nil
}

// chainEspEfiBinary loads and starts another UEFI image directly, bypassing
// the Android boot-image path entirely: on return the EFI binary owned the
// machine while it ran, so this system unloads it and reboots rather than
// continuing its own boot sequence (spec.md §4.G).
func (l *Loader) chainEspEfiBinary(decision types.Decision) error {
	handle, err := l.Platform.LoadImageFromPath(decision.TargetPath)
	if err != nil {
		return errors.Wrap(err, "loader: load ESP EFI binary")
	}
	if decision.OneShot {
		if err := l.Platform.FileDelete(decision.TargetPath); err != nil {
			l.Logger.Warnf("loader: one-shot delete of %s failed: %v", decision.TargetPath, err)
		}
	}
	startErr := l.Platform.StartImage(handle)
	if err := l.Platform.UnloadImage(handle); err != nil {
		l.Logger.Warnf("loader: unload of chained EFI binary failed: %v", err)
	}
	if startErr != nil {
		return errors.Wrap(startErr, "loader: start ESP EFI binary")
	}
	return l.Platform.Reboot()
}

func (l *Loader) fetchMemory(decision types.Decision) ([]byte, error) {
	if l.Memory == nil {
		return nil, types.NewFirmwareError("loader.fetchMemory", types.KindNotSupported,
			errors.New("no MemoryReader wired"))
	}
	return l.Memory.ReadMemory(decision.TargetAddress)
}
