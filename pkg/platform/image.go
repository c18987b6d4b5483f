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

package platform

import (
	"fmt"
	"os"

	efi "github.com/canonical/go-efilib"
	"github.com/canonical/go-efilib/linux"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// imageHandle is what Real's LoadImage* calls hand back: a path the staged
// EFI binary was written to on the ESP, because this façade runs from an
// already-booted Linux kernel (efivarfs, not UEFI boot services) and the
// only way it can "start" another EFI application is the same one
// nullboot's BootManager uses: register a Boot#### load option and ask
// firmware to run it on the next boot.
type imageHandle string

const stagedImagePath = `\kflinger-staged.efi`

func (r *Real) LoadImageFromBuffer(buf []byte) (types.ImageHandle, error) {
	fs, err := r.espFS()
	if err != nil {
		return nil, err
	}
	f, err := fs.OpenFile(stagedImagePath, os.O_CREATE|os.O_RDWR|os.O_TRUNC)
	if err != nil {
		return nil, types.NewFirmwareError("LoadImageFromBuffer", types.KindOther, err)
	}
	if _, err := f.Write(buf); err != nil {
		return nil, types.NewFirmwareError("LoadImageFromBuffer", types.KindOther, err)
	}
	return imageHandle(stagedImagePath), nil
}

// StartImage registers the staged image as a one-shot BootNext entry and
// returns; as with Reboot/Halt, success means control passes to firmware on
// the next reset, so this method is expected to be immediately followed by
// a Reboot call from the caller.
func (r *Real) StartImage(h types.ImageHandle) error {
	path, ok := h.(imageHandle)
	if !ok {
		return types.NewFirmwareError("StartImage", types.KindInvalidParameter, fmt.Errorf("not an image handle from this platform"))
	}
	devicePath, err := linux.FilePathToDevicePath(string(path), linux.ShortFormPathHD)
	if err != nil {
		return types.NewFirmwareError("StartImage", types.KindOther, err)
	}
	opt := &efi.LoadOption{
		Attributes:  efi.LoadOptionActive | efi.LoadOptionCategoryBoot,
		Description: "kflinger staged image",
		FilePath:    devicePath,
	}
	data, err := opt.Bytes()
	if err != nil {
		return types.NewFirmwareError("StartImage", types.KindOther, err)
	}
	attrs := efi.AttributeNonVolatile | efi.AttributeBootserviceAccess | efi.AttributeRuntimeAccess
	if err := efi.WriteVariable("Boot9F00", efi.GlobalVariable, attrs, data); err != nil {
		return types.NewFirmwareError("StartImage:Boot9F00", types.KindOther, err)
	}
	next := []byte{0x00, 0x9F}
	if err := efi.WriteVariable("BootNext", efi.GlobalVariable, attrs, next); err != nil {
		return types.NewFirmwareError("StartImage:BootNext", types.KindOther, err)
	}
	return nil
}

// UnloadImage is a no-op on Real: the staged file on the ESP is left in
// place for firmware to boot via BootNext, and go-diskfs's FAT filesystem
// does not support file removal (see FileDelete).
func (r *Real) UnloadImage(h types.ImageHandle) error {
	if _, ok := h.(imageHandle); !ok {
		return types.NewFirmwareError("UnloadImage", types.KindInvalidParameter, fmt.Errorf("not an image handle from this platform"))
	}
	return nil
}
