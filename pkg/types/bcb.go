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

// BCB is the logical view of the bootloader control block that the core
// consumes: the two fields it interprets, command and status. The on-disk
// fixed-layout record (including the recovery console field this system
// never reads) lives in pkg/bcb, whose Codec.Read returns its own *bcb.BCB
// rather than this struct.
type BCB struct {
	Command string
	Status  string
}

const (
	// BCBCommandBootPrefix marks a persistent boot directive.
	BCBCommandBootPrefix = "boot-"
	// BCBCommandBootOncePrefix marks a one-shot boot directive; the BCB probe
	// clears Command back to empty before the codec writes the block back.
	BCBCommandBootOncePrefix = "bootonce-"
)
