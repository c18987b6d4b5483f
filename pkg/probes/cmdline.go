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

package probes

import (
	"strconv"
	"strings"

	"github.com/rancher-sandbox/kflinger/pkg/types"
)

// CommandLine parses the loaded-image argument vector. The only recognized
// option is `-a <hex-address>`, emitting Memory with TargetAddress set;
// argv[0] (the image name) is tolerated, any other unknown argument is a
// parse error that degrades to NormalBoot rather than aborting the boot.
func CommandLine(argv []string) (types.BootTarget, Aux, error) {
	for i := 1; i < len(argv); i++ {
		if argv[i] != "-a" {
			return types.NormalBoot, Aux{}, nil
		}
		if i+1 >= len(argv) {
			return types.NormalBoot, Aux{}, nil
		}
		addrStr := strings.TrimPrefix(strings.TrimPrefix(argv[i+1], "0x"), "0X")
		addr, err := strconv.ParseUint(addrStr, 16, 64)
		if err != nil {
			return types.NormalBoot, Aux{}, nil
		}
		return types.Memory, Aux{TargetAddress: uintptr(addr)}, nil
	}
	return types.NormalBoot, Aux{}, nil
}
