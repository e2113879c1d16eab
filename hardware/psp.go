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
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/assert"
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hardware/clocks"
	"github.com/gopherpsp/gopherpsp/hardware/ge"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/hardware/scheduler"
	"github.com/gopherpsp/gopherpsp/hardware/threadman"
	"github.com/gopherpsp/gopherpsp/hle/geuser"
	"github.com/gopherpsp/gopherpsp/hle/interruptman"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
)

// PSP is the root of the emulated hardware.
type PSP struct {
	Env *environment.Environment

	Mem     *memory.Memory
	CPU     *allegrex.Processor
	Sched   *scheduler.Scheduler
	Threads *threadman.Manager
	Intr    *intrman.Manager

	Core *native.Software
	GE   *ge.Engine

	// kernel modules
	InterruptMan *interruptman.Module
	GeUser       *geuser.Module

	frames  int
	running bool
}

// NewPSP creates a new PSP and everything associated with the hardware.
func NewPSP(env *environment.Environment) (*PSP, error) {
	psp := &PSP{
		Env:     env,
		Mem:     memory.NewMemory(env),
		CPU:     allegrex.NewProcessor(env),
		Sched:   scheduler.NewScheduler(),
		Threads: threadman.NewManager(env),
	}

	psp.Intr = intrman.NewManager(env, psp.CPU, psp.Threads, psp.Sched)
	psp.CPU.SetInterruptsEnabledListener(psp.Intr.OnInterruptsReEnabled)
	psp.InterruptMan = interruptman.NewModule(env, psp.Intr, psp.CPU)

	psp.GeUser = geuser.NewModule(env, psp.Mem, psp.CPU, psp.Intr, psp.Threads, psp.Sched)
	psp.Core = native.NewSoftware(psp.Mem)

	var err error
	psp.GE, err = ge.NewEngine(env, psp.Mem, psp.Core, psp.GeUser)
	if err != nil {
		return nil, errors.Wrap(err, "psp")
	}
	psp.GeUser.AttachEngine(psp.GE)

	psp.countFrames()

	return psp, nil
}

func (psp *PSP) String() string {
	return fmt.Sprintf("frame=%d time=%dus ge=[%s]", psp.frames, psp.Sched.Now(), psp.GE)
}

// frames are counted by a vblank action. the intrman reset removes the
// action so this must be called after every reset
func (psp *PSP) countFrames() {
	psp.Intr.AddVBlankAction(func() {
		psp.frames++
	})
}

// Start the vertical blank and the GE goroutine. The goroutine calling
// Start() is the emulation goroutine and should be the only goroutine that
// steps the emulation.
func (psp *PSP) Start() error {
	if psp.running {
		return errors.New("psp: already started")
	}
	assert.SetEmulationGoroutine()
	if err := psp.GE.Start(); err != nil {
		return errors.Wrap(err, "psp")
	}
	psp.Intr.Start()
	psp.running = true
	return nil
}

// Stop the vertical blank and the GE goroutine.
func (psp *PSP) Stop() error {
	if !psp.running {
		return nil
	}
	psp.running = false
	psp.Intr.Stop()
	if err := psp.GE.Stop(); err != nil {
		return errors.Wrap(err, "psp")
	}
	return nil
}

// Reset the PSP to its initial state. Every queued list is removed and every
// interrupt handler and thread is forgotten. The vertical blank is restarted
// if the PSP has been started.
func (psp *PSP) Reset() {
	psp.GE.Reset()
	psp.Sched.Reset()
	psp.Intr.Reset()
	psp.Threads.Reset()
	psp.CPU.Reset()
	psp.Mem.Reset()
	psp.Core.Reset()
	psp.GeUser.Reset()

	psp.frames = 0
	psp.countFrames()
	if psp.running {
		psp.Intr.Start()
	}
}

// Frame returns the number of vertical blanks since the last reset.
func (psp *PSP) Frame() int {
	return psp.frames
}

// Step the emulation by one vertical blank period. Notifications from the GE
// that arrived since the previous step are serviced first.
func (psp *PSP) Step() {
	psp.Sched.RunDue()
	psp.Sched.Advance(psp.Sched.Now() + clocks.VBlankPeriod)
}

// Sync waits for the GE to complete every queued list and then services the
// notifications it sent. Virtual time does not move.
func (psp *PSP) Sync(ctx context.Context) error {
	if err := psp.GE.DrawSync(ctx); err != nil {
		return errors.Wrap(err, "psp")
	}
	psp.Sched.RunDue()
	return nil
}
