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
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/rancher-sandbox/kflinger/pkg/constants"
	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// DevMemReader is the production types.MemoryReader: it maps physical
// memory through /dev/mem, the userspace-after-boot equivalent of the
// original firmware directly dereferencing a physical pointer for the
// Memory boot target (original_source/kernelflinger.c's MEMORY case).
type DevMemReader struct {
	// Path defaults to "/dev/mem" when empty.
	Path string
}

// NewDevMemReader returns a DevMemReader reading the default /dev/mem.
func NewDevMemReader() *DevMemReader {
	return &DevMemReader{}
}

func (d *DevMemReader) path() string {
	if d.Path == "" {
		return "/dev/mem"
	}
	return d.Path
}

// ReadMemory maps a fixed-size window of physical memory starting at addr
// and copies it out. mmap requires a page-aligned offset, so the mapping
// starts at the containing page and the requested address's offset within
// it is sliced back off before returning.
func (d *DevMemReader) ReadMemory(addr uintptr) ([]byte, error) {
	f, err := os.OpenFile(d.path(), os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "memory: open")
	}
	defer f.Close()

	pageSize := int64(os.Getpagesize())
	base := (int64(addr) / pageSize) * pageSize
	skip := int64(addr) - base
	length := int(skip) + constants.MemoryImageReadWindow

	mapped, err := unix.Mmap(int(f.Fd()), base, length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "memory: mmap")
	}
	defer unix.Munmap(mapped)

	buf := make([]byte, constants.MemoryImageReadWindow)
	copy(buf, mapped[skip:])
	return buf, nil
}

var _ types.MemoryReader = (*DevMemReader)(nil)
