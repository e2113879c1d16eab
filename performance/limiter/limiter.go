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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FpsLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(60)
//	defer fps.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		psp.Step()
//	}
package limiter

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// this is a really rough attempt at frame rate limiting. probably only any
// good if base performance of the machine is well above the required rate.

// FpsLimiter will trigger every frames per second
type FpsLimiter struct {
	framesPerSecond atomic.Int64
	secondsPerFrame atomic.Int64

	tick chan bool
	quit chan struct{}
}

// NewFPSLimiter is the preferred method of initialisation for FpsLimiter type
func NewFPSLimiter(framesPerSecond int) (*FpsLimiter, error) {
	lim := &FpsLimiter{
		tick: make(chan bool),
		quit: make(chan struct{}),
	}
	if err := lim.SetLimit(framesPerSecond); err != nil {
		return nil, err
	}

	// run ticker concurrently
	go func() {
		t := time.Now()
		adjust := time.Duration(0)
		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			spf := time.Duration(lim.secondsPerFrame.Load())
			time.Sleep(spf + adjust)
			nt := time.Now()

			// carry the error of the previous sleep into the next sleep
			adjust -= nt.Sub(t) - spf
			adjust = max(adjust, -spf)
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FpsLimiter waits
func (lim *FpsLimiter) SetLimit(framesPerSecond int) error {
	if framesPerSecond <= 0 {
		return errors.Errorf("limiter: frames per second must be positive (%d)", framesPerSecond)
	}
	lim.framesPerSecond.Store(int64(framesPerSecond))
	lim.secondsPerFrame.Store(int64(time.Second) / int64(framesPerSecond))
	return nil
}

// Limit returns the current frames per second limit.
func (lim *FpsLimiter) Limit() int {
	return int(lim.framesPerSecond.Load())
}

// Wait will block until trigger. Wait() returns immediately once the limiter
// has stopped.
func (lim *FpsLimiter) Wait() {
	select {
	case <-lim.tick:
	case <-lim.quit:
	}
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen
func (lim *FpsLimiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}

// Stop the limiter goroutine. Stop() must not be called more than once.
func (lim *FpsLimiter) Stop() {
	close(lim.quit)
}
