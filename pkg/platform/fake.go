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

// Package platform implements the Platform services façade (component A):
// a real adapter over efivarfs/go-diskfs/x-sys, and an in-memory Fake used
// by every other package's unit tests.
package platform

import (
	"time"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

type varKey struct {
	guid types.GUID
	name string
}

// Fake is an in-memory Platform double, grounded on the "var to make it
// testable" seam in wolfbox-snappy's bootloader_uboot.go, generalized into
// a full interface implementation rather than package-level vars, because
// every consumer here takes a types.Platform directly.
type Fake struct {
	vars  map[varKey][]byte
	files map[string][]byte

	// Keys is a queue of key events ReadKeyNonBlocking drains in order;
	// once empty it returns types.KindNotReady. A released key is
	// represented by appending a NotReady marker explicitly via
	// ReleaseKey.
	Keys []keyEvent

	// Partitions holds raw partition bytes keyed by partition-type GUID.
	Partitions map[types.GUID][]byte

	ArgvValue []string

	RebootCalls int
	HaltCalls   int

	LoadedImages map[int][]byte
	nextHandle   int
	StartedImage []int
	UnloadedImage []int

	// StallCalls records every Stall duration, so probe timing tests can
	// assert on the number and length of polls without a real clock.
	StallCalls []time.Duration
}

type keyEvent struct {
	ready bool
	key   types.Key
}

// NewFake returns an empty Fake platform.
func NewFake() *Fake {
	return &Fake{
		vars:         map[varKey][]byte{},
		files:        map[string][]byte{},
		Partitions:   map[types.GUID][]byte{},
		LoadedImages: map[int][]byte{},
	}
}

func (f *Fake) ReadVariable(scope types.GUID, name string) ([]byte, error) {
	v, ok := f.vars[varKey{scope, name}]
	if !ok {
		return nil, types.NewFirmwareError("ReadVariable:"+name, types.KindNotFound, nil)
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (f *Fake) WriteVariable(scope types.GUID, name string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.vars[varKey{scope, name}] = cp
	return nil
}

func (f *Fake) DeleteVariable(scope types.GUID, name string) error {
	delete(f.vars, varKey{scope, name})
	return nil
}

func (f *Fake) Stall(d time.Duration) {
	f.StallCalls = append(f.StallCalls, d)
}

func (f *Fake) ResetInput() error {
	return nil
}

// PressKey queues one more-key-available event.
func (f *Fake) PressKey(k types.Key) {
	f.Keys = append(f.Keys, keyEvent{ready: true, key: k})
}

// ReleaseKey queues a not-ready event, simulating the key having been
// released since the previous poll.
func (f *Fake) ReleaseKey() {
	f.Keys = append(f.Keys, keyEvent{ready: false})
}

func (f *Fake) ReadKeyNonBlocking() (types.Key, error) {
	if len(f.Keys) == 0 {
		return types.Key{}, types.NewFirmwareError("ReadKeyNonBlocking", types.KindNotReady, nil)
	}
	ev := f.Keys[0]
	f.Keys = f.Keys[1:]
	if !ev.ready {
		return types.Key{}, types.NewFirmwareError("ReadKeyNonBlocking", types.KindNotReady, nil)
	}
	return ev.key, nil
}

func (f *Fake) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

// PutFile seeds the ESP with a file, for test setup.
func (f *Fake) PutFile(path string, data []byte) {
	f.files[path] = data
}

func (f *Fake) FileRead(path string) ([]byte, error) {
	v, ok := f.files[path]
	if !ok {
		return nil, types.NewFirmwareError("FileRead:"+path, types.KindNotFound, nil)
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (f *Fake) FileDelete(path string) error {
	if _, ok := f.files[path]; !ok {
		return types.NewFirmwareError("FileDelete:"+path, types.KindNotFound, nil)
	}
	delete(f.files, path)
	return nil
}

func (f *Fake) LoadImageFromPath(path string) (types.ImageHandle, error) {
	data, err := f.FileRead(path)
	if err != nil {
		return nil, err
	}
	return f.LoadImageFromBuffer(data)
}

func (f *Fake) LoadImageFromBuffer(buf []byte) (types.ImageHandle, error) {
	f.nextHandle++
	h := f.nextHandle
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.LoadedImages[h] = cp
	return h, nil
}

func (f *Fake) StartImage(h types.ImageHandle) error {
	id, ok := h.(int)
	if !ok {
		return types.NewFirmwareError("StartImage", types.KindInvalidParameter, nil)
	}
	f.StartedImage = append(f.StartedImage, id)
	return nil
}

func (f *Fake) UnloadImage(h types.ImageHandle) error {
	id, ok := h.(int)
	if !ok {
		return types.NewFirmwareError("UnloadImage", types.KindInvalidParameter, nil)
	}
	f.UnloadedImage = append(f.UnloadedImage, id)
	delete(f.LoadedImages, id)
	return nil
}

func (f *Fake) ReadPartition(partType types.GUID) ([]byte, error) {
	v, ok := f.Partitions[partType]
	if !ok {
		return nil, types.NewFirmwareError("ReadPartition", types.KindNotFound, nil)
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (f *Fake) WritePartition(partType types.GUID, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.Partitions[partType] = cp
	return nil
}

func (f *Fake) Reboot() error {
	f.RebootCalls++
	return nil
}

func (f *Fake) Halt() error {
	f.HaltCalls++
	return nil
}

func (f *Fake) Argv() []string {
	return f.ArgvValue
}

var _ types.Platform = (*Fake)(nil)
