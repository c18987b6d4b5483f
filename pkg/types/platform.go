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

package types

import (
	"time"

	efi "github.com/canonical/go-efilib"
)

// GUID is the scope/identity type for both named variables and GPT
// partitions. It is a plain alias of go-efilib's GUID type so every package
// in this module shares one representation instead of converting back and
// forth at the platform boundary.
type GUID = efi.GUID

// Key is a single, already-decoded key event. Real console/firmware key
// input is an explicit external collaborator (spec.md §1); this type is the
// whole of the contract the core needs from it.
type Key struct {
	Code rune
}

// ImageHandle is opaque to every caller above pkg/platform; it is whatever
// the platform's image loader returned for a given load call.
type ImageHandle any

// Platform is the façade the rest of the core consumes (component A). Every
// operation fails with an error whose types.Kind (via KindOf) is one of the
// firmware-status kinds in spec.md §7.
type Platform interface {
	// Named persistent variables, GUID-scoped.
	ReadVariable(scope GUID, name string) ([]byte, error)
	WriteVariable(scope GUID, name string, data []byte) error
	DeleteVariable(scope GUID, name string) error

	// Timing and input.
	Stall(d time.Duration)
	ResetInput() error
	ReadKeyNonBlocking() (Key, error)

	// ESP simple-file-system surface.
	FileExists(path string) bool
	FileRead(path string) ([]byte, error)
	FileDelete(path string) error

	// Image load/start, used for EFI chain-loading.
	LoadImageFromPath(path string) (ImageHandle, error)
	LoadImageFromBuffer(buf []byte) (ImageHandle, error)
	StartImage(h ImageHandle) error
	UnloadImage(h ImageHandle) error

	// Raw GPT partitions, identified by partition-type GUID.
	ReadPartition(partType GUID) ([]byte, error)
	WritePartition(partType GUID, data []byte) error

	// Terminal operations. Both are expected to never return on success;
	// a returned error means the underlying syscall itself failed.
	Reboot() error
	Halt() error

	// Argv is the loaded-image protocol's argument vector (component C1).
	Argv() []string
}

// ImageStarter hands a loaded Android boot image buffer to the kernel. The
// Android boot-image parser and kernel hand-off are an explicit external
// collaborator (spec.md §1); this is the entire contract the loader needs
// from it.
type ImageStarter interface {
	StartAndroidImage(buf []byte, chargingHandoff bool) error
}

// MemoryClearer is invoked by the boot-state reporter whenever the color
// being reported is not Green. The actual clearing routine is
// firmware/platform specific and stays an external collaborator.
type MemoryClearer interface {
	ClearMemory() error
}

// Verifier is the cryptographic keystore verification primitive, an
// explicit external collaborator (spec.md §1). The core only needs to know
// whether an image verified, never how.
type Verifier interface {
	Verify(buf []byte) error
}

// MenuRenderer is the graphical UI toolkit (image draw, font rendering,
// text areas), an explicit external collaborator (spec.md §1).
type MenuRenderer interface {
	Draw(entries []ActionEntry, selected int, info DeviceInfo) error
	Refresh() error
}

// MemoryReader resolves the Memory target's pre-resident Android boot image
// from a physical address. Raw memory access has no firmware-services
// indirection to go through, so it is its own narrow external collaborator
// rather than a Platform method.
type MemoryReader interface {
	ReadMemory(addr uintptr) ([]byte, error)
}
