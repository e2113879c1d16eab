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

package digest

import (
	"crypto/sha1"
	"fmt"
	"image"

	"github.com/pkg/errors"
)

const pixelDepth = 3

// Video is a chained digest of framebuffer images.
type Video struct {
	digest   [sha1.Size]byte
	pixels   []byte
	frameNum int
}

// NewVideo is the preferred method of initialisation for the Video type.
// The width and height are the dimensions of the frames that will be given
// to the Frame() function.
func NewVideo(width int, height int) *Video {
	return &Video{
		pixels: make([]byte, sha1.Size+width*height*pixelDepth),
	}
}

// Hash implements digest.Digest interface
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements digest.Digest interface
func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.frameNum = 0
}

// Frames returns the number of frames added to the digest since the last
// reset.
func (dig *Video) Frames() int {
	return dig.frameNum
}

// Frame adds an image to the digest. The alpha channel is ignored.
func (dig *Video) Frame(img *image.RGBA) error {
	b := img.Bounds()
	if sha1.Size+b.Dx()*b.Dy()*pixelDepth != len(dig.pixels) {
		return errors.Errorf("digest: frame size %dx%d does not match digest", b.Dx(), b.Dy())
	}

	// chain fingerprints by copying the value of the last fingerprint
	// to the head of the video data
	copy(dig.pixels, dig.digest[:])

	i := sha1.Size
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			dig.pixels[i] = row[x*4]
			dig.pixels[i+1] = row[x*4+1]
			dig.pixels[i+2] = row[x*4+2]
			i += pixelDepth
		}
	}

	dig.digest = sha1.Sum(dig.pixels)
	dig.frameNum++
	return nil
}
