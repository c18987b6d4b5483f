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
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the firmware-status error kinds the core recognizes and
// branches on (spec.md §7). Every Platform operation that can fail returns
// an error whose Kind() is one of these.
type Kind int

const (
	// KindOther covers any platform failure the core does not special-case;
	// it is logged and treated as a load failure triggering fall-back.
	KindOther Kind = iota
	// KindNotReady is expected during key polling; never logged as an error.
	KindNotReady
	// KindNotFound means a variable or file is absent; treated as "signal
	// says normal".
	KindNotFound
	// KindInvalidParameter means malformed input (bad BCB, unsupported
	// loader target); converted to NormalBoot or a fall-back.
	KindInvalidParameter
	// KindAccessDenied means verification was refused; triggers Red +
	// fall-back.
	KindAccessDenied
	// KindNotSupported means a recognized but unimplemented command, e.g.
	// the garbage-disk / get-hashes OEM diagnostics.
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindNotReady:
		return "not-ready"
	case KindNotFound:
		return "not-found"
	case KindInvalidParameter:
		return "invalid-parameter"
	case KindAccessDenied:
		return "access-denied"
	case KindNotSupported:
		return "not-supported"
	default:
		return "other"
	}
}

// FirmwareError wraps a platform-level cause with the Kind the core's
// policy branches need, while still letting errors.Cause(err) recover the
// original error for logging.
type FirmwareError struct {
	kind  Kind
	cause error
	op    string
}

func NewFirmwareError(op string, kind Kind, cause error) *FirmwareError {
	return &FirmwareError{op: op, kind: kind, cause: cause}
}

func (e *FirmwareError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.op, e.kind, e.cause)
}

func (e *FirmwareError) Unwrap() error { return e.cause }

func (e *FirmwareError) Kind() Kind { return e.kind }

// KindOf extracts the Kind from err, defaulting to KindOther when err does
// not carry one (or is nil, in which case it is not really a "kind" at
// all, but callers that only call KindOf on a non-nil err never observe
// that case).
func KindOf(err error) Kind {
	var fe *FirmwareError
	if errors.As(err, &fe) {
		return fe.kind
	}
	return KindOther
}

// IsNotFound is a convenience predicate mirrored after the teacher's
// frequent err-kind-check idiom.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsNotReady mirrors IsNotFound for the polling-loop hot path.
func IsNotReady(err error) bool { return KindOf(err) == KindNotReady }
