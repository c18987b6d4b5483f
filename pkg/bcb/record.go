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

// Package bcb implements component B: the fixed-layout bootloader control
// block persisted on the `misc` partition, grounded in canonical/snapd's
// bootloader/lkenv.go (commonSerialize/commonLoad, cToGoString/copyString)
// as the pack's worked example of a NUL-terminated, CRC-guarded binary
// record read straight off a raw partition.
package bcb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	commandLen = 64
	statusLen  = 64
	reservedLen = 32
)

// record is the on-disk layout: two NUL-terminated byte fields the arbiter
// cares about, a reserved pad for forward compatibility, and a trailing
// little-endian CRC32 over everything preceding it.
type record struct {
	Command  [commandLen]byte
	Status   [statusLen]byte
	Reserved [reservedLen]byte
	Crc32    uint32
}

// cToGoString converts a NUL-terminated byte array to a string; an
// unterminated array yields "" rather than garbage, the same convention
// lkenv.go uses.
func cToGoString(b []byte) string {
	if end := bytes.IndexByte(b, 0); end >= 0 {
		return string(b[:end])
	}
	return ""
}

// copyString writes s into b, truncating and always NUL-terminating.
func copyString(b []byte, s string) {
	sl, bs := len(s), len(b)
	if bs > sl {
		copy(b, s)
		b[sl] = 0
	} else {
		copy(b[:bs-1], s)
		b[bs-1] = 0
	}
}

func decodeRecord(buf []byte) (*record, error) {
	var rec record
	size := binary.Size(rec)
	if len(buf) < size {
		return nil, fmt.Errorf("bcb: partition payload too short: got %d bytes, need %d", len(buf), size)
	}
	if err := binary.Read(bytes.NewReader(buf[:size]), binary.LittleEndian, &rec); err != nil {
		return nil, fmt.Errorf("bcb: decode: %w", err)
	}
	return &rec, nil
}

// encodeRecord serializes rec and recomputes its trailing CRC32, the same
// "serialize then patch only the CRC word" approach commonSerialize takes.
func encodeRecord(rec *record) ([]byte, error) {
	w := bytes.NewBuffer(nil)
	size := binary.Size(*rec)
	w.Grow(size)
	if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
		return nil, fmt.Errorf("bcb: encode: %w", err)
	}
	crc := crc32.ChecksumIEEE(w.Bytes()[:size-4])
	out := w.Bytes()
	binary.LittleEndian.PutUint32(out[size-4:size], crc)
	return out, nil
}
