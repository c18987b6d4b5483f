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

package bcb

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// BCB is the mutable, in-memory view a codec Read hands to the arbiter.
// Mutations (ClearCommand) stay in memory until WriteBack is
// called; Read itself never writes.
type BCB struct {
	rec *record
}

// Command is the raw `command` field, as persisted.
func (b *BCB) Command() string { return cToGoString(b.rec.Command[:]) }

// ClearCommand empties the command field in memory, used for the
// `bootonce-` one-shot contract (spec.md §4.B).
func (b *BCB) ClearCommand() { copyString(b.rec.Command[:], "") }

// Codec reads/writes the BCB record to/from the `misc` partition through a
// types.Platform, component B's entire contract.
type Codec struct {
	Platform types.Platform
	Logger   types.Logger
}

func NewCodec(p types.Platform, logger types.Logger) *Codec {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Codec{Platform: p, Logger: logger}
}

// Read loads the BCB off the `misc` partition and zeroes `status` in the
// in-memory copy before handing it back: this system owns that field, and
// every reader is expected to see it cleared (spec.md §4.B, property R1).
func (c *Codec) Read() (*BCB, error) {
	buf, err := c.Platform.ReadPartition(constants.MiscPartitionGUID)
	if err != nil {
		return nil, errors.Wrap(err, "bcb: read partition")
	}
	rec, err := decodeRecord(buf)
	if err != nil {
		return nil, errors.Wrap(err, "bcb: decode")
	}
	rec.Status = [statusLen]byte{}
	return &BCB{rec: rec}, nil
}

// WriteBack persists b to the `misc` partition. Callers use it both for the
// ordinary read/zero-status/write-back cycle (property R1) and for the
// best-effort `bootonce-` command-clearing write (spec.md §4.B), which
// retries once via a bounded backoff before logging and giving up: the
// decision proceeds regardless, per spec.
func (c *Codec) WriteBack(b *BCB) error {
	data, err := encodeRecord(b.rec)
	if err != nil {
		return errors.Wrap(err, "bcb: encode for write-back")
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(0), constants.FallbackMaxRetries)
	err = backoff.Retry(func() error {
		return c.Platform.WritePartition(constants.MiscPartitionGUID, data)
	}, policy)
	if err != nil {
		c.Logger.Warnf("bcb: best-effort write-back failed after retry: %v", err)
		return errors.Wrap(err, "bcb: write-back")
	}
	return nil
}
