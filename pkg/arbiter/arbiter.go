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

// Package arbiter implements component D: it runs the six signal probes in
// fixed priority order and yields the single Decision the rest of the core
// acts on.
package arbiter

import (
	"context"

	"github.com/sanity-io/litter"

	"github.com/rancher-sandbox/kflinger/pkg/bcb"
	"github.com/rancher-sandbox/kflinger/pkg/probes"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

type probeFunc func() (types.BootTarget, probes.Aux, error)

// Decide runs probes 1 through 6 in order; the first to propose anything
// other than NormalBoot wins and the rest are never consulted. oneshot
// defaults to true per spec.md §4.D and is overwritten only by whichever
// probe actually wins.
func Decide(ctx context.Context, platform types.Platform, codec *bcb.Codec, logger types.Logger, wake types.WakeSource, argv []string) (types.Decision, error) {
	if logger == nil {
		logger = types.NopLogger{}
	}

	order := []probeFunc{
		func() (types.BootTarget, probes.Aux, error) { return probes.CommandLine(argv) },
		func() (types.BootTarget, probes.Aux, error) { return probes.FastbootSentinel(platform) },
		func() (types.BootTarget, probes.Aux, error) { return probes.MagicKey(platform) },
		func() (types.BootTarget, probes.Aux, error) { return probes.BCB(codec) },
		func() (types.BootTarget, probes.Aux, error) { return probes.LoaderEntryOneShot(platform, logger) },
		func() (types.BootTarget, probes.Aux, error) { return probes.ChargeMode(platform, wake) },
	}

	decision := types.Decision{Target: types.NormalBoot, OneShot: true}
	for _, probe := range order {
		select {
		case <-ctx.Done():
			return types.Decision{}, ctx.Err()
		default:
		}

		target, aux, err := probe()
		if err != nil {
			logger.Warnf("arbiter: probe error, treating as NormalBoot: %v", err)
			continue
		}
		if target == types.NormalBoot {
			continue
		}
		decision = types.Decision{
			Target:        target,
			TargetPath:    aux.TargetPath,
			TargetAddress: aux.TargetAddress,
			OneShot:       aux.OneShot,
		}
		break
	}

	if err := decision.Validate(); err != nil {
		logger.Warnf("arbiter: decision failed invariant check, falling back to NormalBoot: %v", err)
		return types.Decision{Target: types.NormalBoot, OneShot: true}, nil
	}

	logger.Debugf("arbiter: decision = %s", litter.Sdump(decision))
	return decision, nil
}
