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

package demo_test

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gopherpsp/gopherpsp/demo"
	"github.com/gopherpsp/gopherpsp/digest"
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/test"
)

const numFrames = 10

func run(t *testing.T, threads int) (*hardware.PSP, *demo.Program, *digest.Video) {
	t.Helper()
	prefs := preferences.NewDefaultPreferences()
	test.DemandSuccess(t, prefs.RenderThreads.Set(threads))
	env, err := environment.NewEnvironment("test", prefs)
	test.DemandSuccess(t, err)

	psp, err := hardware.NewPSP(env)
	test.DemandSuccess(t, err)
	prg, err := demo.Load(psp)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, psp.Start())
	t.Cleanup(func() {
		test.ExpectSuccess(t, psp.Stop())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dig := digest.NewVideo(native.Width, native.Height)
	err = prg.Run(ctx, numFrames, func(frame int) error {
		img, _ := psp.Core.Frame()
		return dig.Frame(img)
	})
	test.DemandSuccess(t, err)
	return psp, prg, dig
}

func TestProgram(t *testing.T) {
	psp, prg, dig := run(t, 4)

	test.ExpectEquality(t, psp.Frame(), numFrames)
	test.ExpectEquality(t, psp.GE.Frames(), numFrames)
	test.ExpectEquality(t, prg.Submitted, numFrames)
	test.ExpectEquality(t, prg.Skipped, 0)
	test.ExpectEquality(t, prg.Signals, numFrames)
	test.ExpectEquality(t, prg.Finishes, numFrames)
	test.ExpectEquality(t, prg.LastSignal, uint32(numFrames-1))
	test.ExpectEquality(t, prg.LastFinish, uint32(numFrames-1))
	test.ExpectEquality(t, dig.Frames(), numFrames)

	img, frames := psp.Core.Frame()
	test.ExpectEquality(t, frames, numFrames)

	x := demo.SquareX(numFrames - 1)
	test.ExpectEquality(t, img.RGBAAt(x, 120), color.RGBA{R: 0xff, G: 0xc0, B: 0x20, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x+31, 151), color.RGBA{R: 0xff, G: 0xc0, B: 0x20, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(x+32, 120), color.RGBA{R: 0x10, G: 0x20, B: 0x40, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(0, 0), color.RGBA{R: 0x10, G: 0x20, B: 0x40, A: 0xff})
	test.ExpectEquality(t, img.RGBAAt(native.Width-1, native.Height-1), color.RGBA{R: 0x10, G: 0x20, B: 0x40, A: 0xff})
}

// the output of the demo does not depend on the number of renderer threads
func TestDigestAcrossThreads(t *testing.T) {
	_, _, ref := run(t, 0)
	for _, threads := range []int{1, 2, 3, 5, 8} {
		_, _, dig := run(t, threads)
		test.ExpectEquality(t, dig.Hash(), ref.Hash(), threads)
	}
}

func TestSquareX(t *testing.T) {
	test.ExpectEquality(t, demo.SquareX(0), 0)
	test.ExpectEquality(t, demo.SquareX(10), 40)
	test.ExpectEquality(t, demo.SquareX(112), 0)
}
