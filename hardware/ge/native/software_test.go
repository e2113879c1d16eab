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

package native_test

import (
	"image/color"
	"testing"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/test"
)

func newSoftware(t *testing.T) (*native.Software, *memory.Memory) {
	t.Helper()
	env, err := environment.NewEnvironment("test", preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)
	mem := memory.NewMemory(env)
	return native.NewSoftware(mem), mem
}

func TestState(t *testing.T) {
	sw, _ := newSoftware(t)

	sw.SetCommand(0x10, 0x00080000)
	test.ExpectEquality(t, sw.Command(0x10), uint32(0x00080000))
	test.ExpectEquality(t, sw.Command(native.NumCommands), uint32(0))

	sw.SetStallAddress(0x08801000)
	test.ExpectEquality(t, sw.StallAddress(), uint32(0x08801000))

	sw.SetActive(true)
	test.ExpectSuccess(t, sw.Active())

	var m native.Matrix
	m[0] = 1.5
	sw.SetMatrix(native.MatrixWorld, m)
	test.ExpectEquality(t, sw.Matrix(native.MatrixWorld), m)
	test.ExpectEquality(t, sw.Matrix(native.NumMatrices), native.Matrix{})
}

func TestContext(t *testing.T) {
	sw, mem := newSoftware(t)

	sw.SetCommand(0x3a, 5)
	var m native.Matrix
	m[11] = -2.0
	sw.SetMatrix(native.MatrixView, m)

	test.DemandSuccess(t, sw.SaveContext(0x08900000))
	test.ExpectEquality(t, mem.Read32(0x08900000+0x3a*4), uint32(5))

	sw.Reset()
	test.ExpectEquality(t, sw.Command(0x3a), uint32(0))

	test.DemandSuccess(t, sw.RestoreContext(0x08900000))
	test.ExpectEquality(t, sw.Command(0x3a), uint32(5))
	test.ExpectEquality(t, sw.Matrix(native.MatrixView), m)

	// the context block must be entirely within RAM
	test.ExpectSuccess(t, sw.SaveContext(memory.MemtopRAM-native.ContextSize+1))
	test.ExpectFailure(t, sw.SaveContext(memory.MemtopRAM-native.ContextSize+2))
	test.ExpectFailure(t, sw.RestoreContext(0x00000000))
}

func TestRenderPartition(t *testing.T) {
	sw, _ := newSoftware(t)

	red := color.RGBA{R: 0xff, A: 0xff}
	sw.AddSprite(native.Sprite{X0: 10, Y0: 0, X1: 0, Y1: 64, Color: red})

	// render the even lines only
	sw.RenderPartition(0x55555555)
	sw.TerminateRender()

	img, frames := sw.Frame()
	test.ExpectEquality(t, frames, 1)
	test.ExpectEquality(t, img.RGBAAt(5, 0), red)
	test.ExpectEquality(t, img.RGBAAt(5, 1), color.RGBA{})
	test.ExpectEquality(t, img.RGBAAt(5, 62), red)
	test.ExpectEquality(t, img.RGBAAt(5, 64), color.RGBA{})
	test.ExpectEquality(t, img.RGBAAt(10, 0), color.RGBA{})

	// sprites are cleared by TerminateRender
	sw.RenderPartition(0xffffffff)
	sw.TerminateRender()
	img, _ = sw.Frame()
	test.ExpectEquality(t, img.RGBAAt(5, 1), color.RGBA{})
}

func TestClipping(t *testing.T) {
	sw, _ := newSoftware(t)

	blue := color.RGBA{B: 0xff, A: 0xff}
	sw.AddSprite(native.Sprite{X0: -100, Y0: -100, X1: 1000, Y1: 1000, Color: blue})
	sw.AddSprite(native.Sprite{X0: 500, Y0: 0, X1: 600, Y1: 10, Color: blue})
	sw.RenderPartition(0xffffffff)
	sw.TerminateRender()

	img, _ := sw.Frame()
	test.ExpectEquality(t, img.RGBAAt(0, 0), blue)
	test.ExpectEquality(t, img.RGBAAt(native.Width-1, native.Height-1), blue)
}
