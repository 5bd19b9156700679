// Copyright 2025 go-imglib Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package img

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOverflow        = errors.New("size overflow")
	ErrOutOfMemory     = errors.New("out of memory")
	ErrLogic           = errors.New("logic error")
	ErrOutOfRange      = errors.New("out of range")
	ErrDivideByZero    = errors.New("divide by zero")
)

// Details carried in addition to a kind.
var (
	ErrEmptyMat     = errors.New("mat is empty")
	ErrSizeMismatch = errors.New("size mismatch")
	ErrTypeMismatch = errors.New("type mismatch")
)

// Error describes a failed operation on a Mat.
type Error struct {
	Op   string // operation that failed, e.g. "Mat.ROI"
	Kind error  // one of the Err* kinds, nil when inherited from Err
	Msg  string // human-readable detail
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("img: ")
	b.WriteString(e.Op)
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	} else if e.Kind != nil {
		b.WriteString(" (")
		b.WriteString(e.Kind.Error())
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(op string, kind, cause error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// wrapError adds operation context to err without changing its kind.
func wrapError(op string, err error, format string, args ...any) error {
	return &Error{Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

func errEmpty(op string) error {
	return &Error{Op: op, Kind: ErrLogic, Err: ErrEmptyMat}
}
