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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/demo"
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/govern"
	"github.com/gopherpsp/gopherpsp/hardware"
)

// sentinel error returned by Run() loop.
var timedOut = errors.New("performance timed out")

// the maximum period before measurement starts
const maxLeadTime = 2 * time.Second

// Check the performance of the emulator by running the demo program for the
// specified duration. Every frame is synchronised with the GE so the frame
// rate includes the time spent drawing.
//
// Measurement begins after a lead time to allow the frame rate to settle.
// The lead time is a quarter of the duration up to a maximum of two seconds.
func Check(output io.Writer, env *environment.Environment, profile Profile, duration time.Duration) error {
	psp, err := hardware.NewPSP(env)
	if err != nil {
		return errors.Wrap(err, "performance")
	}
	prg, err := demo.Load(psp)
	if err != nil {
		return errors.Wrap(err, "performance")
	}
	if err := psp.Start(); err != nil {
		return errors.Wrap(err, "performance")
	}
	defer psp.Stop()

	leadTime := min(maxLeadTime, duration/4)
	var startFrame int

	runner := func() error {
		// signals false when the lead time has elapsed and true when the
		// measurement period has finished
		timerChan := make(chan bool, 2)
		time.AfterFunc(leadTime, func() {
			timerChan <- false
			time.AfterFunc(duration, func() {
				timerChan <- true
			})
		})

		return psp.Run(func() (govern.State, error) {
			if err := psp.Sync(context.Background()); err != nil {
				return govern.Ending, err
			}
			select {
			case v := <-timerChan:
				if v {
					return govern.Ending, timedOut
				}
				startFrame = psp.Frame()
			default:
			}
			return govern.Running, nil
		})
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return errors.Wrap(err, "performance")
	}

	numFrames := psp.Frame() - startFrame
	fps, accuracy := CalcFPS(numFrames, duration.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, duration.Seconds(), accuracy)
	if prg.Skipped > 0 {
		fmt.Fprintf(output, "%d frames skipped by the guest\n", prg.Skipped)
	}

	return nil
}
