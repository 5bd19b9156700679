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

// Geometric transforms move whole pixels as raw bytes, so they work for
// every depth without numeric reinterpretation.

// Rotate returns src rotated clockwise by times quarter turns.
// times is taken modulo 4; negative values turn counter-clockwise.
func Rotate(src *Mat, times int) (*Mat, error) {
	const op = "Rotate"
	if err := src.check(op); err != nil {
		return nil, err
	}
	times %= 4
	if times < 0 {
		times += 4
	}
	if times == 0 {
		dst, err := src.Clone()
		if err != nil {
			return nil, wrapError(op, err, "")
		}
		return dst, nil
	}

	rows, cols := src.rows, src.cols
	dstRows, dstCols := rows, cols
	if times == 1 || times == 3 {
		dstRows, dstCols = cols, rows
	}
	dst, err := New(dstRows, dstCols, src.typ)
	if err != nil {
		return nil, wrapError(op, err, "%s", src)
	}

	ps := src.PixelSize()
	for r := 0; r < rows; r++ {
		srow := src.rowBytes(r)
		for c := 0; c < cols; c++ {
			var dr, dc int
			switch times {
			case 1:
				dr, dc = c, rows-1-r
			case 2:
				dr, dc = rows-1-r, cols-1-c
			case 3:
				dr, dc = cols-1-c, r
			}
			copy(dst.rowBytes(dr)[dc*ps:(dc+1)*ps], srow[c*ps:(c+1)*ps])
		}
	}
	return dst, nil
}

// Resize returns src scaled to newRows x newCols with nearest-neighbour
// sampling: destination (dr, dc) reads source
// (floor(dr*rows/newRows), floor(dc*cols/newCols)), clamped to the last index.
func Resize(src *Mat, newRows, newCols int) (*Mat, error) {
	const op = "Resize"
	if err := src.check(op); err != nil {
		return nil, err
	}
	if newRows <= 0 || newCols <= 0 {
		return nil, newError(op, ErrInvalidArgument, nil, "target size %dx%d", newRows, newCols)
	}
	dst, err := New(newRows, newCols, src.typ)
	if err != nil {
		return nil, wrapError(op, err, "%s to %dx%d", src, newRows, newCols)
	}

	yRatio := float64(src.rows) / float64(newRows)
	xRatio := float64(src.cols) / float64(newCols)

	// Column mapping is the same for every row.
	srcCols := make([]int, newCols)
	for dc := range srcCols {
		srcCols[dc] = min(int(float64(dc)*xRatio), src.cols-1)
	}

	ps := src.PixelSize()
	for dr := 0; dr < newRows; dr++ {
		sr := min(int(float64(dr)*yRatio), src.rows-1)
		srow := src.rowBytes(sr)
		drow := dst.rowBytes(dr)
		for dc, sc := range srcCols {
			copy(drow[dc*ps:(dc+1)*ps], srow[sc*ps:(sc+1)*ps])
		}
	}
	return dst, nil
}
