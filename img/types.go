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
	"fmt"
	"strconv"
	"strings"
)

// Element is a constraint for the channel element types a Mat can hold.
// There is exactly one element type per Depth.
type Element interface {
	uint8 | uint16 | int32 | float32 | float64
}

// Depth identifies the numeric type of a single channel.
type Depth int

const (
	// Depth8U is an 8-bit unsigned channel.
	Depth8U Depth = iota
	// Depth16U is a 16-bit unsigned channel.
	Depth16U
	// Depth32S is a 32-bit signed integer channel.
	Depth32S
	// Depth32F is a 32-bit float channel.
	Depth32F
	// Depth64F is a 64-bit float channel.
	Depth64F

	numDepths
)

// maxChannels is the largest channel count the tag layout can express.
const maxChannels = 32

// Valid reports whether d is one of the supported depths.
func (d Depth) Valid() bool {
	return d >= Depth8U && d < numDepths
}

// Size returns the number of bytes of one channel element, or 0 for an
// unknown depth.
func (d Depth) Size() int {
	switch d {
	case Depth8U:
		return 1
	case Depth16U:
		return 2
	case Depth32S, Depth32F:
		return 4
	case Depth64F:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the depth holds floating-point channels.
func (d Depth) IsFloat() bool {
	return d == Depth32F || d == Depth64F
}

// String returns a short name for the depth like "8U" or "32F".
func (d Depth) String() string {
	switch d {
	case Depth8U:
		return "8U"
	case Depth16U:
		return "16U"
	case Depth32S:
		return "32S"
	case Depth32F:
		return "32F"
	case Depth64F:
		return "64F"
	default:
		return "Depth(" + strconv.Itoa(int(d)) + ")"
	}
}

// PixelType packs a depth and a channel count into one tag:
// depth in the low three bits, channels-1 in the next five.
type PixelType int

// MakeType builds the tag for depth d with cn channels.
// The result is only meaningful if it passes Validate.
func MakeType(d Depth, cn int) PixelType {
	return PixelType(int(d) + ((cn - 1) << 3))
}

// Named pixel types.
const (
	Type8UC1 = PixelType(int(Depth8U) + (0 << 3))
	Type8UC3 = PixelType(int(Depth8U) + (2 << 3))
	Type8UC4 = PixelType(int(Depth8U) + (3 << 3))

	Type16UC1 = PixelType(int(Depth16U) + (0 << 3))
	Type16UC3 = PixelType(int(Depth16U) + (2 << 3))
	Type16UC4 = PixelType(int(Depth16U) + (3 << 3))

	Type32SC1 = PixelType(int(Depth32S) + (0 << 3))
	Type32SC3 = PixelType(int(Depth32S) + (2 << 3))
	Type32SC4 = PixelType(int(Depth32S) + (3 << 3))

	Type32FC1 = PixelType(int(Depth32F) + (0 << 3))
	Type32FC3 = PixelType(int(Depth32F) + (2 << 3))
	Type32FC4 = PixelType(int(Depth32F) + (3 << 3))

	Type64FC1 = PixelType(int(Depth64F) + (0 << 3))
	Type64FC3 = PixelType(int(Depth64F) + (2 << 3))
	Type64FC4 = PixelType(int(Depth64F) + (3 << 3))
)

// Depth decodes the depth bits of the tag.
func (t PixelType) Depth() Depth {
	return Depth(int(t) & 7)
}

// Channels decodes the channel count of the tag.
func (t PixelType) Channels() int {
	return ((int(t) >> 3) & 0x1F) + 1
}

// PixelSize returns the bytes per pixel, or 0 for an invalid tag.
func (t PixelType) PixelSize() int {
	if t.Validate() != nil {
		return 0
	}
	return t.Depth().Size() * t.Channels()
}

// Validate reports an ErrInvalidArgument error if t does not decode to a
// supported (depth, channels) pair. Tags outside the 8-bit layout are
// rejected rather than masked down to a valid one.
func (t PixelType) Validate() error {
	if t < 0 {
		return newError("PixelType.Validate", ErrInvalidArgument, nil,
			"negative pixel type %d", int(t))
	}
	if int(t) >= 8*maxChannels {
		return newError("PixelType.Validate", ErrInvalidArgument, nil,
			"pixel type %d out of range", int(t))
	}
	if !t.Depth().Valid() {
		return newError("PixelType.Validate", ErrInvalidArgument, nil,
			"unsupported depth %d in pixel type %d", int(t.Depth()), int(t))
	}
	switch t.Channels() {
	case 1, 3, 4:
	default:
		return newError("PixelType.Validate", ErrInvalidArgument, nil,
			"unsupported channel count %d in pixel type %d", t.Channels(), int(t))
	}
	return nil
}

// String returns the conventional name of the type, for example "8UC3".
func (t PixelType) String() string {
	if t.Validate() != nil {
		return "PixelType(" + strconv.Itoa(int(t)) + ")"
	}
	return t.Depth().String() + "C" + strconv.Itoa(t.Channels())
}

// ParseType parses names of the form produced by PixelType.String,
// case-insensitively, with an optional "IMG_" prefix.
func ParseType(s string) (PixelType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "IMG_")
	i := strings.LastIndexByte(name, 'C')
	if i <= 0 || i == len(name)-1 {
		return -1, newError("ParseType", ErrInvalidArgument, nil, "malformed pixel type %q", s)
	}
	var d Depth = -1
	for cand := Depth8U; cand < numDepths; cand++ {
		if cand.String() == name[:i] {
			d = cand
			break
		}
	}
	if d < 0 {
		return -1, newError("ParseType", ErrInvalidArgument, nil, "unknown depth in %q", s)
	}
	cn, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return -1, newError("ParseType", ErrInvalidArgument, err, "bad channel count in %q", s)
	}
	t := MakeType(d, cn)
	if err := t.Validate(); err != nil {
		return -1, fmt.Errorf("parse %q: %w", s, err)
	}
	return t, nil
}

// depthOf returns the Depth matching element type T.
func depthOf[T Element]() Depth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Depth8U
	case uint16:
		return Depth16U
	case int32:
		return Depth32S
	case float32:
		return Depth32F
	case float64:
		return Depth64F
	}
	return -1
}
