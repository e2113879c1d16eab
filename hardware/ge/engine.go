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

package ge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/ge/renderer"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/logger"
	"github.com/gopherpsp/gopherpsp/notifications"
)

// Sentinel errors returned by the Engine.
var (
	ErrNoFreeList = errors.New("ge: no free draw list")
	ErrNoList     = errors.New("ge: no such draw list")
	ErrNotRunning = errors.New("ge: engine not running")
)

// Engine owns the draw list queue, the rendering core, the renderer workers
// and the GE goroutine.
type Engine struct {
	env    *environment.Environment
	mem    memory.Bus
	core   native.Core
	notify notifications.Notify

	queue *Queue

	// nil if frames are drawn on the GE goroutine
	rend *renderer.Renderer

	// the GE goroutine
	wake    chan struct{}
	quit    chan struct{}
	g       *errgroup.Group
	running atomic.Bool

	listsCrit sync.Mutex
	lists     [MaxLists]*List

	frames atomic.Int64
}

// NewEngine is the preferred method of initialisation for the Engine type.
// The number of renderer workers and the treatment of bad line masks are
// taken from the preferences. The notify argument can be nil.
func NewEngine(env *environment.Environment, mem memory.Bus, core native.Core, notify notifications.Notify) (*Engine, error) {
	e := &Engine{
		env:    env,
		mem:    mem,
		core:   core,
		notify: notify,
		wake:   make(chan struct{}, 1),
	}
	e.queue = NewQueue(env, core, e.signal, e.onListDone)

	threads := env.Prefs.RenderThreads.Get().(int)
	if threads > 0 {
		var err error
		e.rend, err = renderer.New(env, core, threads, env.Prefs.StrictMasks.Get().(bool))
		if err != nil {
			return nil, errors.Wrap(err, "ge")
		}
	}

	return e, nil
}

func (e *Engine) String() string {
	if e.rend == nil {
		return fmt.Sprintf("frames=%d (no renderer threads)", e.frames.Load())
	}
	return fmt.Sprintf("frames=%d renderer %s", e.frames.Load(), e.rend)
}

// Queue returns the draw list queue.
func (e *Engine) Queue() *Queue {
	return e.queue
}

// Core returns the rendering core.
func (e *Engine) Core() native.Core {
	return e.core
}

// Frames returns the number of frames drawn.
func (e *Engine) Frames() int {
	return int(e.frames.Load())
}

// RenderThreads returns the number of renderer workers. Zero means frames are
// drawn by the GE goroutine.
func (e *Engine) RenderThreads() int {
	if e.rend == nil {
		return 0
	}
	return e.rend.Threads()
}

// Start the GE goroutine and the renderer workers.
func (e *Engine) Start() error {
	if e.running.Load() {
		return errors.New("ge: already running")
	}

	if e.rend != nil {
		if err := e.rend.Start(); err != nil {
			return errors.Wrap(err, "ge")
		}
	}

	e.quit = make(chan struct{})
	e.g = &errgroup.Group{}
	e.g.Go(e.run)
	e.running.Store(true)

	// a list may have been queued before the engine started
	e.signal()
	return nil
}

// Stop the GE goroutine and the renderer workers. Lists remain in the queue.
func (e *Engine) Stop() error {
	if !e.running.Load() {
		return nil
	}
	close(e.quit)
	err := e.g.Wait()
	e.running.Store(false)

	if e.rend != nil {
		if rerr := e.rend.Stop(); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}

// Reset removes every list from the queue.
func (e *Engine) Reset() {
	e.queue.OnUserStop()
}

// signal the GE goroutine that there is work
func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// NewList allocates an id and creates a list.
func (e *Engine) NewList(listAddr uint32, stallAddr uint32, callbackID int, contextAddr uint32, stackAddr uint32) (*List, error) {
	e.listsCrit.Lock()
	defer e.listsCrit.Unlock()
	for id, l := range e.lists {
		if l == nil {
			l = NewList(id, listAddr, stallAddr, callbackID, contextAddr, stackAddr)
			e.lists[id] = l
			return l, nil
		}
	}
	return nil, ErrNoFreeList
}

// List returns the list with the id.
func (e *Engine) List(id int) (*List, error) {
	if id < 0 || id >= MaxLists {
		return nil, ErrNoList
	}
	e.listsCrit.Lock()
	defer e.listsCrit.Unlock()
	if e.lists[id] == nil {
		return nil, ErrNoList
	}
	return e.lists[id], nil
}

// onListDone is called by the queue when a list leaves the queue
func (e *Engine) onListDone(l *List) {
	e.listsCrit.Lock()
	if l.ID >= 0 && l.ID < MaxLists && e.lists[l.ID] == l {
		e.lists[l.ID] = nil
	}
	e.listsCrit.Unlock()
	e.post(notifications.NotifyGeListDone, l.ID)
}

func (e *Engine) post(notice notifications.Notice, args ...int) {
	if e.notify == nil {
		return
	}
	if err := e.notify.Notify(notice, args...); err != nil {
		logger.Log(e.env, "ge", err)
	}
}

// Wait for a list to leave the queue.
func (e *Engine) Wait(ctx context.Context, l *List) error {
	select {
	case <-l.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrawSync waits for every list in the queue to complete.
func (e *Engine) DrawSync(ctx context.Context) error {
	for {
		l := e.queue.LastDrawList()
		if l == nil {
			return nil
		}
		if err := e.Wait(ctx, l); err != nil {
			return err
		}
	}
}

// DrawStatus returns the Drawing status if there are lists in the queue and
// Done otherwise.
func (e *Engine) DrawStatus() Status {
	if e.queue.FirstDrawList() == nil {
		return Done
	}
	return Drawing
}

// Break pauses the current list. Returns the paused list. Only a list that
// is drawing or has reached its stall address can be paused.
func (e *Engine) Break() (*List, error) {
	l := e.queue.CurrentList()
	if l == nil {
		return nil, ErrNoList
	}
	for {
		s := l.Status()
		if s != Drawing && s != StallReached {
			return nil, ErrNoList
		}
		if l.transition(s, Paused) {
			return l, nil
		}
	}
}

// Continue resumes a list paused by Break().
func (e *Engine) Continue() (*List, error) {
	l := e.queue.CurrentList()
	if l == nil || l.Status() != Paused {
		return nil, ErrNoList
	}
	e.queue.OnRestartList(l)
	return l, nil
}

// run is the GE goroutine
func (e *Engine) run() error {
	for {
		select {
		case <-e.quit:
			return nil
		case <-e.wake:
		}

		for {
			l := e.queue.CurrentList()
			if l == nil {
				break
			}
			if !e.interpret(l) {
				break
			}
		}
	}
}

// render a frame and report its completion
func (e *Engine) render() {
	if e.rend != nil {
		if err := e.rend.Render(); err != nil {
			logger.Log(e.env, "ge", err)
			return
		}
	} else {
		e.core.RenderPartition(0xffffffff)
		e.core.TerminateRender()
	}
	e.frames.Add(1)
	e.post(notifications.NotifyFrameRendered)
}
