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

package scheduler

import (
	"container/heap"
	"fmt"
	"sync"
)

// Entry is a scheduled action. The value returned by AddAction() can be used
// to cancel the action before it runs.
type Entry struct {
	at  uint64
	seq uint64
	fn  func()

	// position in the heap. -1 if the entry is not scheduled
	index int

	sched *Scheduler
}

// When returns the time the action is scheduled for.
func (e *Entry) When() uint64 {
	return e.at
}

// Cancel removes the action from the scheduler. Returns false if the entry
// has already run or been cancelled.
func (e *Entry) Cancel() bool {
	if e == nil || e.sched == nil {
		return false
	}
	s := e.sched
	s.crit.Lock()
	defer s.crit.Unlock()
	if e.index < 0 {
		return false
	}
	heap.Remove(&s.queue, e.index)
	return true
}

// entries implements heap.Interface
type entries []*Entry

func (q entries) Len() int {
	return len(q)
}

func (q entries) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q entries) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *entries) Push(x any) {
	e := x.(*Entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *entries) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// Scheduler is the virtual-time scheduler.
type Scheduler struct {
	crit  sync.Mutex
	now   uint64
	seq   uint64
	queue entries
}

// NewScheduler is the preferred method of initialisation for the Scheduler type.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) String() string {
	s.crit.Lock()
	defer s.crit.Unlock()
	if len(s.queue) == 0 {
		return fmt.Sprintf("%dus (no actions)", s.now)
	}
	return fmt.Sprintf("%dus (%d actions, next at %dus)", s.now, len(s.queue), s.queue[0].at)
}

// Reset removes all actions and sets the time to zero.
func (s *Scheduler) Reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	for _, e := range s.queue {
		e.index = -1
	}
	s.queue = s.queue[:0]
	s.now = 0
	s.seq = 0
}

// Now returns the current virtual time.
func (s *Scheduler) Now() uint64 {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.now
}

// AddAction schedules fn to run at the absolute time at. An action scheduled
// for a time in the past will run at the next call to Advance().
func (s *Scheduler) AddAction(at uint64, fn func()) *Entry {
	s.crit.Lock()
	defer s.crit.Unlock()
	e := &Entry{
		at:    at,
		seq:   s.seq,
		fn:    fn,
		sched: s,
	}
	s.seq++
	heap.Push(&s.queue, e)
	return e
}

// NextAction returns the time of the next scheduled action. The boolean is
// false if there are no actions.
func (s *Scheduler) NextAction() (uint64, bool) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

// Pending returns the number of scheduled actions.
func (s *Scheduler) Pending() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return len(s.queue)
}

// Advance runs every action due at or before the time to. The current time
// is moved forward to the time of each action as it runs, and to the time to
// once there are no more due actions. Time is never moved backwards.
//
// Returns the number of actions run.
func (s *Scheduler) Advance(to uint64) int {
	var n int
	for {
		s.crit.Lock()
		if len(s.queue) == 0 || s.queue[0].at > to {
			s.now = max(s.now, to)
			s.crit.Unlock()
			return n
		}
		e := heap.Pop(&s.queue).(*Entry)
		s.now = max(s.now, e.at)
		s.crit.Unlock()

		if e.fn != nil {
			e.fn()
		}
		n++
	}
}

// RunDue runs every action due at the current time. Used to service actions
// added by other goroutines without moving time forward.
func (s *Scheduler) RunDue() int {
	return s.Advance(s.Now())
}
