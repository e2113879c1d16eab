// This file is part of GopherPSP.
//
// GopherPSP is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPSP.  If not, see <https://www.gnu.org/licenses/>.

package renderer

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
)

// MaxThreads is the maximum number of renderer workers.
const MaxThreads = 8

// LineMasks returns the scanline masks for n workers.
func LineMasks(n int) ([]uint32, error) {
	if n < 1 || n > MaxThreads {
		return nil, errors.Errorf("renderer: unsupported number of threads (%d)", n)
	}
	masks := make([]uint32, n)
	for b := range 32 {
		masks[b%n] |= 1 << b
	}
	return masks, nil
}

// CheckMasks returns an error if the masks do not exactly tile 0xffffffff.
func CheckMasks(masks []uint32) error {
	if len(masks) == 0 {
		return errors.New("renderer: no line masks")
	}

	var union uint32
	for i, m := range masks {
		if m == 0 {
			return errors.Errorf("renderer: line mask %d is empty", i)
		}
		if overlap := union & m; overlap != 0 {
			return errors.Errorf("renderer: line mask %d overlaps %d lines of an earlier mask", i, bits.OnesCount32(overlap))
		}
		union |= m
	}

	if union != 0xffffffff {
		return errors.Errorf("renderer: line masks do not cover lines %s", missing(union))
	}

	return nil
}

// missing formats the lines not covered by the union of masks
func missing(union uint32) string {
	var s string
	for b := range 32 {
		if union&(1<<b) == 0 {
			if s != "" {
				s += ","
			}
			s += fmt.Sprint(b)
		}
	}
	return s
}
