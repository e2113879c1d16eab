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

// Package screenshot saves framebuffer images to PNG files. Images can be
// scaled by a whole number factor before saving.
package screenshot

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// MaxScale is the largest scaling factor accepted by Scale().
const MaxScale = 8

// Scale returns a copy of the image scaled by the factor. The nearest
// neighbour of each pixel is used so edges remain sharp.
func Scale(img image.Image, scale int) (*image.RGBA, error) {
	if scale < 1 || scale > MaxScale {
		return nil, errors.Errorf("screenshot: scale must be between 1 and %d (%d)", MaxScale, scale)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// Write the scaled image to w as a PNG.
func Write(w io.Writer, img image.Image, scale int) error {
	dst, err := Scale(img, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, dst); err != nil {
		return errors.Wrap(err, "screenshot")
	}
	return nil
}

// Save the scaled image to a PNG file.
func Save(filename string, img image.Image, scale int) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "screenshot")
	}
	if err := Write(f, img, scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "screenshot")
	}
	return nil
}
