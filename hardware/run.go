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

package hardware

import (
	"time"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/govern"
)

// pausedPoll is how often the scheduler is serviced while the emulation is
// paused
const pausedPoll = 10 * time.Millisecond

// Run sets the emulation running as quickly as possible. The continueCheck
// function is called after every step and can be nil.
func (psp *PSP) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Ending && state != govern.Initialising {
		switch state {
		case govern.Running:
			psp.Step()
		case govern.Paused:
			psp.Sched.RunDue()
			time.Sleep(pausedPoll)
		default:
			return errors.Errorf("psp: unsupported emulation state (%s) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForFrameCount sets emulator running for the specified number of frames.
// Useful for FPS and regression tests. The continueCheck function is called
// after every step and can be nil.
//
// A frame is counted when the vertical blank interrupt is delivered, so
// frames are not counted while interrupts are disabled.
func (psp *PSP) RunForFrameCount(numFrames int, continueCheck func(frame int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(frame int) (govern.State, error) { return govern.Running, nil }
	}

	if !psp.running {
		return errors.New("psp: not started")
	}

	targetFrame := psp.frames + numFrames

	state := govern.Running
	for psp.frames < targetFrame && state != govern.Ending {
		psp.Step()

		var err error
		state, err = continueCheck(psp.frames)
		if err != nil {
			return err
		}
	}

	return nil
}
