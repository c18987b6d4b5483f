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

// Package bootstate implements component H: it persists the verified-boot
// color immediately before every hand-off and triggers memory clearing
// whenever that color is not Green.
package bootstate

import (
	"github.com/pkg/errors"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// Reporter writes BootState and, on any non-Green color, delegates to a
// types.MemoryClearer — an explicit external collaborator, since clearing
// working memory ahead of an untrusted hand-off is necessarily
// platform/firmware specific.
type Reporter struct {
	Platform types.Platform
	Clearer  types.MemoryClearer
	Logger   types.Logger
}

func NewReporter(p types.Platform, clearer types.MemoryClearer, logger types.Logger) *Reporter {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Reporter{Platform: p, Clearer: clearer, Logger: logger}
}

// Write persists color as a single byte to the BootState variable, then
// clears memory whenever color != Green: a verified-boot requirement, since
// an untrusted boot path must not inherit memory contents from this loader.
func (r *Reporter) Write(color types.BootState) error {
	if err := r.Platform.WriteVariable(constants.FastbootGUID, constants.VarBootState, []byte{byte(color)}); err != nil {
		return errors.Wrap(err, "bootstate: write BootState")
	}
	if color == types.Green {
		return nil
	}
	if r.Clearer == nil {
		r.Logger.Warnf("bootstate: color %s requires a memory clear but no MemoryClearer is wired", color)
		return nil
	}
	if err := r.Clearer.ClearMemory(); err != nil {
		return errors.Wrap(err, "bootstate: clear memory")
	}
	return nil
}
