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

// Package native defines the contract between the GE emulation and the
// rendering core that draws the frame. The GE engine interprets draw lists
// and passes state and primitives to the Core. The renderer package divides
// the drawing of a frame between worker goroutines by calling
// RenderPartition() with a different scanline mask on each.
//
// The Software type is the rendering core used by default. It draws sprites
// into an RGBA framebuffer.
package native
