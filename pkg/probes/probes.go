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

// Package probes implements component C: six independent, pure-ish
// functions that each inspect one signal source and propose a BootTarget,
// one function per file, mirroring the teacher's one-function-does-one-
// thing style in pkg/snapshotter/btrfs.go.
package probes

import "github.com/rancher-sandbox/kflinger/pkg/types"

// Aux carries the decision auxiliaries a probe may set alongside its
// BootTarget: the arbiter copies whichever fields are meaningful for the
// winning target straight into the final types.Decision.
type Aux struct {
	TargetPath    string
	TargetAddress uintptr
	OneShot       bool
}
