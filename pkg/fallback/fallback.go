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

// Package fallback implements component G: verified-boot color bookkeeping
// and the degraded-path ladder (normal → recovery → fastboot) that runs
// when an image fails to validate or load.
package fallback

import (
	"context"
	"errors"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// ErrExhausted is returned when the retry ladder bottoms out: any failure
// while already targeting Recovery, or a failure once the single retry has
// been spent. The caller is expected to enter
// the Fastboot loop with the accompanying color, Red; this device cannot be
// unbricked without an operator.
var ErrExhausted = errors.New("fallback: retry ladder exhausted, entering fastboot")

// imageLoader is the narrow slice of pkg/loader.Loader this package needs,
// kept as an interface so fallback's own tests can stub it without
// depending on pkg/loader's other collaborators.
type imageLoader interface {
	Load(ctx context.Context, color types.BootState, decision types.Decision) error
}

// Run drives the hand-off attempt(s) for decision, escalating BootState and
// retargeting to Recovery as spec.md §4.G's ladder dictates. It returns the
// final BootState reached; err is nil on a successful load and ErrExhausted
// whenever the ladder gives up. The underlying load error is logged, not
// returned.
func Run(ctx context.Context, loader imageLoader, logger types.Logger, decision types.Decision) (types.BootState, error) {
	if logger == nil {
		logger = types.NopLogger{}
	}

	color := types.Green
	retriesLeft := constants.FallbackMaxRetries

	for {
		err := loader.Load(ctx, color, decision)
		if err == nil {
			return color, nil
		}

		if types.KindOf(err) == types.KindAccessDenied {
			color = types.Red
		}

		// Once Recovery itself has failed there is nowhere further to fall
		// back to: the device needs an operator (spec.md §4.G).
		if decision.Target == types.Recovery || retriesLeft <= 0 {
			logger.Errorf("fallback: no further fallback available, color=%s: %v", color, err)
			return types.Red, ErrExhausted
		}
		retriesLeft--

		logger.Warnf("fallback: load failed (%v), retargeting to recovery", err)
		decision = types.Decision{Target: types.Recovery, OneShot: false}
	}
}
