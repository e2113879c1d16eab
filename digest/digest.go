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

// Package digest is used to create a fingerprint of the emulation's output.
// The fingerprint is chained: the digest of each frame includes the digest
// of the previous frame. Two runs of the same guest program produce the same
// fingerprint only if every frame is identical.
//
// The digest does not depend on how the frame was rendered. A frame drawn
// by eight renderer threads has the same digest as the frame drawn by the GE
// goroutine alone.
package digest

// Digest implementations take frames and produce a hash of the output.
type Digest interface {
	Hash() string
	ResetDigest()
}
