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
	"container/list"
	"sync"
	"time"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/logger"
)

// timing of the HasDrawList() poll
const (
	hasDrawListPoll   = time.Millisecond
	hasDrawListWindow = 100 * time.Millisecond
)

// Queue is the draw list queue. The current list and the pending lists are
// guarded by a single lock. A list is never both current and pending.
type Queue struct {
	env  *environment.Environment
	core native.Core

	// wake the GE goroutine
	wake func()

	// called when a list leaves the queue. called with the queue lock held
	onDone func(l *List)

	crit    sync.Mutex
	current *List
	pending *list.List
}

// NewQueue is the preferred method of initialisation for the Queue type. The
// wake and onDone functions can be nil.
func NewQueue(env *environment.Environment, core native.Core, wake func(), onDone func(l *List)) *Queue {
	return &Queue{
		env:     env,
		core:    core,
		wake:    wake,
		onDone:  onDone,
		pending: list.New(),
	}
}

// promote a list to current. must be called with the lock held
func (q *Queue) promote(l *List) {
	q.current = l
	l.setStatus(Drawing)
	if l.ContextAddr != 0 {
		if err := q.core.SaveContext(l.ContextAddr); err != nil {
			logger.Log(q.env, "ge", err)
		}
	}
	q.core.SetStallAddress(l.StallAddress())
	q.core.SetActive(true)
	if q.wake != nil {
		q.wake()
	}
}

// find the pending element of a list. must be called with the lock held
func (q *Queue) find(l *List) *list.Element {
	for e := q.pending.Front(); e != nil; e = e.Next() {
		if e.Value.(*List) == l {
			return e
		}
	}
	return nil
}

// isQueued returns true if the list is current or pending. must be called
// with the lock held
func (q *Queue) isQueued(l *List) bool {
	return q.current == l || q.find(l) != nil
}

// canStart returns false if the list is already queued or has been
// released. must be called with the lock held
func (q *Queue) canStart(l *List) bool {
	if l.IsDone() {
		logger.Logf(q.env, "ge", "%s has been released", l)
		return false
	}
	if q.isQueued(l) {
		logger.Logf(q.env, "ge", "%s is already queued", l)
		return false
	}
	return true
}

// StartList promotes the list to current if there is no current list.
// Otherwise the list is added to the end of the pending lists. A list that
// has been released is ignored.
func (q *Queue) StartList(l *List) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if !q.canStart(l) {
		return
	}
	if q.current == nil {
		q.promote(l)
		return
	}
	l.setStatus(Queued)
	q.pending.PushBack(l)
}

// StartListHead is like StartList() except that the list is added to the
// front of the pending lists.
func (q *Queue) StartListHead(l *List) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if !q.canStart(l) {
		return
	}
	if q.current == nil {
		q.promote(l)
		return
	}
	l.setStatus(Queued)
	q.pending.PushFront(l)
}

// OnStallAddrUpdated passes the new stall address of the current list to the
// rendering core and wakes the GE goroutine. Does nothing if the list is not
// current.
func (q *Queue) OnStallAddrUpdated(l *List) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if q.current != l {
		return
	}
	q.core.SetStallAddress(l.StallAddress())
	if q.wake != nil {
		q.wake()
	}
}

// OnRestartList resumes drawing of the current list. Does nothing if the list
// is not current or is finished.
func (q *Queue) OnRestartList(l *List) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if q.current != l || l.IsDone() {
		return
	}
	l.setStatus(Drawing)
	q.core.SetActive(true)
	if q.wake != nil {
		q.wake()
	}
}

// FinishList removes a list from the queue. If the list is current the
// context saved at promotion is restored and the next pending list, if any,
// is promoted before FinishList() returns.
func (q *Queue) FinishList(l *List) {
	q.crit.Lock()
	defer q.crit.Unlock()

	if l.IsDone() {
		return
	}

	// the done callback sees the list as released
	defer func() {
		if q.onDone != nil {
			q.onDone(l)
		}
	}()

	if q.current == l {
		if l.ContextAddr != 0 {
			if err := q.core.RestoreContext(l.ContextAddr); err != nil {
				logger.Log(q.env, "ge", err)
			}
		}
		q.current = nil
		l.release(Done)
		q.promoteNext()
		return
	}

	if e := q.find(l); e != nil {
		q.pending.Remove(e)
	}
	l.release(Done)
}

// promote the first pending list. must be called with the lock held
func (q *Queue) promoteNext() {
	if e := q.pending.Front(); e != nil {
		q.pending.Remove(e)
		q.promote(e.Value.(*List))
		return
	}
	q.core.SetActive(false)
}

// RemoveList removes a pending list from the queue without drawing it. The
// status of the list becomes CancelDone. Returns false if the list is not
// pending.
func (q *Queue) RemoveList(l *List) bool {
	q.crit.Lock()
	defer q.crit.Unlock()

	e := q.find(l)
	if e == nil {
		return false
	}
	q.pending.Remove(e)
	l.release(CancelDone)
	if q.onDone != nil {
		q.onDone(l)
	}
	return true
}

// OnUserStop removes every list from the queue.
func (q *Queue) OnUserStop() {
	q.crit.Lock()
	defer q.crit.Unlock()

	release := func(l *List) {
		l.release(Done)
		if q.onDone != nil {
			q.onDone(l)
		}
	}

	if q.current != nil {
		release(q.current)
		q.current = nil
	}
	for e := q.pending.Front(); e != nil; e = e.Next() {
		release(e.Value.(*List))
	}
	q.pending.Init()
	q.core.SetActive(false)
}

// CurrentList returns the current list or nil.
func (q *Queue) CurrentList() *List {
	q.crit.Lock()
	defer q.crit.Unlock()
	return q.current
}

// FirstDrawList returns the current list or, if there is no current list, the
// first pending list. Returns nil if the queue is empty.
func (q *Queue) FirstDrawList() *List {
	q.crit.Lock()
	defer q.crit.Unlock()
	if q.current != nil {
		return q.current
	}
	if e := q.pending.Front(); e != nil {
		return e.Value.(*List)
	}
	return nil
}

// LastDrawList returns the last pending list or, if there are no pending
// lists, the current list. Returns nil if the queue is empty.
func (q *Queue) LastDrawList() *List {
	q.crit.Lock()
	defer q.crit.Unlock()
	if e := q.pending.Back(); e != nil {
		return e.Value.(*List)
	}
	return q.current
}

// Pending returns a copy of the pending lists in order.
func (q *Queue) Pending() []*List {
	q.crit.Lock()
	defer q.crit.Unlock()
	p := make([]*List, 0, q.pending.Len())
	for e := q.pending.Front(); e != nil; e = e.Next() {
		p = append(p, e.Value.(*List))
	}
	return p
}

// match returns the queued list with the list address, or with the stack
// address if the stack address is not zero
func (q *Queue) match(listAddr uint32, stackAddr uint32) *List {
	q.crit.Lock()
	defer q.crit.Unlock()

	m := func(l *List) bool {
		return l.ListAddr == listAddr || (stackAddr != 0 && l.StackAddr == stackAddr)
	}

	if q.current != nil && m(q.current) {
		return q.current
	}
	for e := q.pending.Front(); e != nil; e = e.Next() {
		if l := e.Value.(*List); m(l) {
			return l
		}
	}
	return nil
}

// HasDrawList returns true if a queued list uses the list address or the
// stack address. Used to reject a duplicate submission.
//
// A matching list that has reached its end but has not yet left the queue is
// waited for. The queue is polled every millisecond for up to 100ms. If the
// list is still in the queue at the end of that time it is considered to be
// in use.
func (q *Queue) HasDrawList(listAddr uint32, stackAddr uint32) bool {
	deadline := time.Now().Add(hasDrawListWindow)
	for {
		l := q.match(listAddr, stackAddr)
		if l == nil {
			return false
		}
		if l.Status() != EndReached {
			return true
		}
		if time.Now().After(deadline) {
			logger.Logf(q.env, "ge", "%s did not complete in %v", l, hasDrawListWindow)
			return true
		}
		time.Sleep(hasDrawListPoll)
	}
}
