/*
Copyright © 2022 SUSE LLC

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

package constants

import (
	"time"

	efi "github.com/canonical/go-efilib"
)

// Vendor-scoped variable namespaces (spec.md §3). FastbootGUID and
// LoaderGUID are carried over unchanged from the original bootloader so
// variables this system provisions are discoverable by the same names an
// operator or flashing tool already expects; LoaderGUID doubles as
// Gummiboot's GUID, the same way the original re-used some of its
// variables.
var (
	FastbootGUID = efi.MakeGUID(0x1ac80a82, 0x4f0c, 0x456b, 0x9a99, [6]uint8{0xde, 0xbe, 0xb4, 0x31, 0xfc, 0xc1})
	LoaderGUID   = efi.MakeGUID(0x4a67b082, 0x0a4c, 0x41cf, 0xb6c7, [6]uint8{0x44, 0x0b, 0x29, 0xbb, 0x8c, 0x4f})
)

// Partition-type GUIDs for the Android partitions the core reads/writes
// directly (component A's read-partition/write-partition contract).
var (
	BootPartitionGUID     = efi.MakeGUID(0x49a4d17f, 0x93a3, 0x45c1, 0xa0de, [6]uint8{0xf5, 0x0b, 0x2e, 0xbe, 0x25, 0x99})
	RecoveryPartitionGUID = efi.MakeGUID(0x4177c722, 0x9e92, 0x4aab, 0x8644, [6]uint8{0x43, 0x50, 0x2b, 0xfd, 0x55, 0x06})
	MiscPartitionGUID     = efi.MakeGUID(0xef32a33b, 0xa409, 0x486c, 0x9141, [6]uint8{0x9f, 0xfb, 0x71, 0x1f, 0x62, 0x66})
)

// Named persistent variables (spec.md §3).
const (
	VarMagicKeyTimeout     = "MagicKeyTimeout"
	VarBootState           = "BootState"
	VarOffModeCharge       = "off-mode-charge"
	VarLoaderEntryOneShot  = "LoaderEntryOneShot"
	VarLoaderVersion       = "LoaderVersion"
)

// ESP paths (spec.md §6).
const (
	ESPForceFastbootSentinel = `\force_fastboot`
	ESPFastbootImage         = `\fastboot.img`
)

// Loader one-shot values (spec.md §3, §4.C).
const (
	LoaderOneShotFastboot  = "fastboot"
	LoaderOneShotBootloader = "bootloader"
	LoaderOneShotRecovery  = "recovery"
	LoaderOneShotCharging  = "charging"
)

// Magic-key probe timing (spec.md §4.C3).
const (
	MagicKeyTimeoutDefault = 200 * time.Millisecond
	MagicKeyTimeoutMin     = 0 * time.Millisecond
	MagicKeyTimeoutMax     = 1000 * time.Millisecond
	MagicKeyPollInterval   = time.Millisecond
	MagicKeyHoldInterval   = 500 * time.Millisecond
	MagicKeyHoldIterations = 8
)

// Fastboot loop timing (spec.md §4.F).
const FastbootFatalPause = 30 * time.Second

// Fall-back policy retry budget (spec.md §4.G, §9).
const FallbackMaxRetries = 1

// MemoryImageReadWindow is how much of physical memory a Memory decision's
// ReadMemory reads starting at target_address. This system has no Android
// boot-image header parser of its own to learn the image's true length up
// front (that lives behind types.ImageStarter), so it over-reads a generous
// fixed window the same way ReadPartition hands back a whole raw partition
// rather than a precisely-sized image.
const MemoryImageReadWindow = 64 << 20

// LoaderVersion is the static version string written to VarLoaderVersion at
// init, the Go-native equivalent of the original's compiled-in build
// string.
const LoaderVersion = "kflinger-1"
