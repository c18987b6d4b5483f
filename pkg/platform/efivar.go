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
	"errors"
	"os"

	efi "github.com/canonical/go-efilib"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// ReadVariable reads a UEFI variable via go-efilib, translating its
// sentinel errors into the firmware-status kinds spec.md §7 requires of
// every Platform method.
func (r *Real) ReadVariable(scope types.GUID, name string) ([]byte, error) {
	data, _, err := efi.ReadVariable(name, scope)
	if err != nil {
		return nil, translateEfiErr("ReadVariable:"+name, err)
	}
	return data, nil
}

func (r *Real) WriteVariable(scope types.GUID, name string, data []byte) error {
	attrs := efi.AttributeNonVolatile | efi.AttributeBootserviceAccess | efi.AttributeRuntimeAccess
	if err := efi.WriteVariable(name, scope, attrs, data); err != nil {
		return translateEfiErr("WriteVariable:"+name, err)
	}
	return nil
}

func (r *Real) DeleteVariable(scope types.GUID, name string) error {
	if err := efi.WriteVariable(name, scope, 0, nil); err != nil {
		return translateEfiErr("DeleteVariable:"+name, err)
	}
	return nil
}

// translateEfiErr maps go-efilib's sentinel errors onto the Kind values the
// rest of this module switches on, so callers never need to import
// go-efilib themselves to interpret a Platform failure.
func translateEfiErr(op string, err error) error {
	switch {
	case errors.Is(err, efi.ErrVarNotExist):
		return types.NewFirmwareError(op, types.KindNotFound, err)
	case errors.Is(err, os.ErrPermission):
		return types.NewFirmwareError(op, types.KindAccessDenied, err)
	default:
		return types.NewFirmwareError(op, types.KindOther, err)
	}
}
