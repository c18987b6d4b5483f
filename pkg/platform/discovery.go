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
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/jaypipes/ghw"

	"github.com/rancher-sandbox/kflinger/pkg/types"
	"github.com/rancher-sandbox/kflinger/pkg/constants"
)

// DiscoverDevice enumerates block devices with ghw, the same discovery
// library elemental-toolkit uses elsewhere in its install path, and returns
// the first one whose GPT carries all three Android partition-type GUIDs
// this module cares about. It lets the operator point the boot manager at
// "whichever disk has these partitions" instead of a hardcoded path.
func DiscoverDevice() (string, error) {
	block, err := ghw.Block()
	if err != nil {
		return "", types.NewFirmwareError("DiscoverDevice", types.KindOther, err)
	}
	for _, disk := range block.Disks {
		path := "/dev/" + disk.Name
		if hasAndroidPartitions(path) {
			return path, nil
		}
	}
	return "", types.NewFirmwareError("DiscoverDevice", types.KindNotFound, fmt.Errorf("no disk carries a misc/boot/recovery partition set"))
}

func hasAndroidPartitions(path string) bool {
	d, err := diskfs.Open(path)
	if err != nil {
		return false
	}
	pt, err := d.GetPartitionTable()
	if err != nil {
		return false
	}
	table, ok := pt.(*gpt.Table)
	if !ok {
		return false
	}
	want := map[string]bool{
		strings.ToUpper(constants.MiscPartitionGUID.String()):     false,
		strings.ToUpper(constants.BootPartitionGUID.String()):     false,
		strings.ToUpper(constants.RecoveryPartitionGUID.String()): false,
	}
	for _, p := range table.Partitions {
		if _, ok := want[strings.ToUpper(string(p.Type))]; ok {
			want[strings.ToUpper(string(p.Type))] = true
		}
	}
	for _, found := range want {
		if !found {
			return false
		}
	}
	return true
}
