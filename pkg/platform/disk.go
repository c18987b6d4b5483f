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
	"path/filepath"
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition/gpt"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// openGPTPartition resolves the on-disk GPT partition whose partition-type
// GUID matches partType, the way imageinspect walks a *gpt.Table's entries
// comparing p.Type against a target GUID string.
func (r *Real) openGPTPartition(partType types.GUID) (offset, size int64, err error) {
	d, err := diskfs.Open(r.cfg.Device)
	if err != nil {
		return 0, 0, types.NewFirmwareError("openGPTPartition:open", types.KindNotFound, err)
	}
	pt, err := d.GetPartitionTable()
	if err != nil {
		return 0, 0, types.NewFirmwareError("openGPTPartition:table", types.KindNotFound, err)
	}
	table, ok := pt.(*gpt.Table)
	if !ok {
		return 0, 0, types.NewFirmwareError("openGPTPartition:table", types.KindNotSupported, fmt.Errorf("not a GPT disk"))
	}
	want := strings.ToUpper(partType.String())
	for _, p := range table.Partitions {
		if strings.ToUpper(string(p.Type)) == want {
			blk := int64(d.LogicalBlocksize)
			return int64(p.Start) * blk, int64(p.End-p.Start+1) * blk, nil
		}
	}
	return 0, 0, types.NewFirmwareError("openGPTPartition", types.KindNotFound, fmt.Errorf("no partition with type %s", want))
}

// ReadPartition reads the whole raw extent of the GPT partition identified
// by partType. misc/boot/recovery are read and written whole: they are
// small, fixed-layout images, not filesystems.
func (r *Real) ReadPartition(partType types.GUID) ([]byte, error) {
	offset, size, err := r.openGPTPartition(partType)
	if err != nil {
		return nil, err
	}
	d, err := diskfs.Open(r.cfg.Device)
	if err != nil {
		return nil, types.NewFirmwareError("ReadPartition:open", types.KindNotFound, err)
	}
	buf := make([]byte, size)
	if _, err := d.File.ReadAt(buf, offset); err != nil {
		return nil, types.NewFirmwareError("ReadPartition:read", types.KindOther, err)
	}
	return buf, nil
}

func (r *Real) WritePartition(partType types.GUID, data []byte) error {
	offset, size, err := r.openGPTPartition(partType)
	if err != nil {
		return err
	}
	if int64(len(data)) > size {
		return types.NewFirmwareError("WritePartition", types.KindInvalidParameter, fmt.Errorf("data larger than partition extent"))
	}
	d, err := diskfs.Open(r.cfg.Device)
	if err != nil {
		return types.NewFirmwareError("WritePartition:open", types.KindNotFound, err)
	}
	if _, err := d.File.WriteAt(data, offset); err != nil {
		return types.NewFirmwareError("WritePartition:write", types.KindOther, err)
	}
	return nil
}

// espFS opens the ESP's FAT filesystem straight off its GPT-typed partition
// on cfg.Device. Config.ESPMountPoint is not consulted: an already-mounted
// ESP path is never used.
func (r *Real) espFS() (filesystem.FileSystem, error) {
	d, err := diskfs.Open(r.cfg.Device)
	if err != nil {
		return nil, types.NewFirmwareError("espFS:open", types.KindNotFound, err)
	}
	pt, err := d.GetPartitionTable()
	if err != nil {
		return nil, types.NewFirmwareError("espFS:table", types.KindNotFound, err)
	}
	table, ok := pt.(*gpt.Table)
	if !ok {
		return nil, types.NewFirmwareError("espFS:table", types.KindNotSupported, fmt.Errorf("not a GPT disk"))
	}
	for i := range table.Partitions {
		if table.Partitions[i].Type == gpt.EFISystemPartition {
			fs, err := d.GetFilesystem(i + 1)
			if err != nil {
				return nil, types.NewFirmwareError("espFS:fs", types.KindOther, err)
			}
			return fs, nil
		}
	}
	return nil, types.NewFirmwareError("espFS", types.KindNotFound, fmt.Errorf("no ESP partition found"))
}

func (r *Real) FileExists(path string) bool {
	fs, err := r.espFS()
	if err != nil {
		return false
	}
	dir := filepath.Dir(path)
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return false
	}
	base := filepath.Base(path)
	for _, e := range entries {
		if e.Name() == base {
			return true
		}
	}
	return false
}

func (r *Real) FileRead(path string) ([]byte, error) {
	fs, err := r.espFS()
	if err != nil {
		return nil, err
	}
	f, err := fs.OpenFile(path, 0)
	if err != nil {
		return nil, types.NewFirmwareError("FileRead:"+path, types.KindNotFound, err)
	}
	fi, err := fs.ReadDir(filepath.Dir(path))
	if err != nil {
		return nil, types.NewFirmwareError("FileRead:"+path, types.KindNotFound, err)
	}
	var size int64
	base := filepath.Base(path)
	for _, e := range fi {
		if e.Name() == base {
			size = e.Size()
		}
	}
	buf := make([]byte, size)
	if _, err := f.Read(buf); err != nil {
		return nil, types.NewFirmwareError("FileRead:"+path, types.KindOther, err)
	}
	return buf, nil
}

func (r *Real) FileDelete(path string) error {
	return types.NewFirmwareError("FileDelete:"+path, types.KindNotSupported, fmt.Errorf("go-diskfs filesystem.FileSystem has no Remove"))
}

func (r *Real) LoadImageFromPath(path string) (types.ImageHandle, error) {
	data, err := r.FileRead(path)
	if err != nil {
		return nil, err
	}
	return r.LoadImageFromBuffer(data)
}
