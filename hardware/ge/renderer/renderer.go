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

package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/logger"
)

// Partitioner is the part of the rendering core used by the renderer.
type Partitioner interface {
	RenderPartition(mask uint32)
	TerminateRender()
}

// Stats are counters of renderer activity.
type Stats struct {
	Frames   int
	Acquires int
}

type worker struct {
	mask  uint32
	start chan struct{}
}

// Renderer coordinates the renderer workers.
type Renderer struct {
	env  *environment.Environment
	core Partitioner

	workers []worker

	// acquired once for every worker at the start of the frame and released
	// by each worker when it has drawn its partition
	sem *semaphore.Weighted

	// closed to stop the workers
	quit chan struct{}
	g    *errgroup.Group

	// Render() can be called from any goroutine but only one frame is drawn
	// at a time
	crit    sync.Mutex
	running bool
	stats   Stats
}

// New creates a renderer with n workers using the masks returned by
// LineMasks(). The workers are not started until Start() is called.
func New(env *environment.Environment, core Partitioner, n int, strict bool) (*Renderer, error) {
	masks, err := LineMasks(n)
	if err != nil {
		return nil, err
	}
	return NewWithMasks(env, core, masks, strict)
}

// NewWithMasks creates a renderer with one worker for each mask. If the masks
// do not tile the scanlines correctly an error is returned when strict is
// true. Otherwise the problem is logged and the renderer is created anyway.
func NewWithMasks(env *environment.Environment, core Partitioner, masks []uint32, strict bool) (*Renderer, error) {
	if len(masks) == 0 || len(masks) > MaxThreads {
		return nil, errors.Errorf("renderer: unsupported number of threads (%d)", len(masks))
	}

	if err := CheckMasks(masks); err != nil {
		if strict {
			return nil, err
		}
		logger.Log(env, "renderer", err)
	}

	r := &Renderer{
		env:     env,
		core:    core,
		workers: make([]worker, len(masks)),
		sem:     semaphore.NewWeighted(int64(len(masks))),
	}
	for i, m := range masks {
		r.workers[i] = worker{
			mask:  m,
			start: make(chan struct{}),
		}
	}

	return r, nil
}

func (r *Renderer) String() string {
	s := fmt.Sprintf("%d threads:", len(r.workers))
	for _, w := range r.workers {
		s = fmt.Sprintf("%s %08x", s, w.mask)
	}
	return s
}

// Threads returns the number of workers.
func (r *Renderer) Threads() int {
	return len(r.workers)
}

// Stats returns the activity counters.
func (r *Renderer) Stats() Stats {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.stats
}

// Start the workers.
func (r *Renderer) Start() error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if r.running {
		return errors.New("renderer: already started")
	}

	// every worker slot begins held by the coordinator. a worker releases its
	// slot when it has drawn its partition
	if err := r.sem.Acquire(context.Background(), int64(len(r.workers))); err != nil {
		return errors.Wrap(err, "renderer")
	}

	r.quit = make(chan struct{})
	r.g = &errgroup.Group{}
	for i := range r.workers {
		w := r.workers[i]
		r.g.Go(func() error {
			for {
				select {
				case <-r.quit:
					return nil
				case <-w.start:
					r.core.RenderPartition(w.mask)
					r.sem.Release(1)
				}
			}
		})
	}
	r.running = true

	logger.Logf(r.env, "renderer", "started %s", r)
	return nil
}

// Render draws a frame. Returns once all workers have completed their
// partitions and the frame has been terminated.
func (r *Renderer) Render() error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if !r.running {
		return errors.New("renderer: not started")
	}

	for _, w := range r.workers {
		w.start <- struct{}{}
	}

	for range r.workers {
		if err := r.sem.Acquire(context.Background(), 1); err != nil {
			return errors.Wrap(err, "renderer")
		}
		r.stats.Acquires++
	}

	r.core.TerminateRender()
	r.stats.Frames++
	return nil
}

// Stop the workers. A worker drawing a partition completes it first.
func (r *Renderer) Stop() error {
	r.crit.Lock()
	defer r.crit.Unlock()

	if !r.running {
		return nil
	}
	close(r.quit)
	err := r.g.Wait()
	r.sem.Release(int64(len(r.workers)))
	r.running = false

	logger.Log(r.env, "renderer", "stopped")
	return err
}
