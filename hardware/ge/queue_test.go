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
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/test"
)

type queueHarness struct {
	mem   *memory.Memory
	core  *native.Software
	q     *Queue
	wakes int
	done  []int
}

func newQueueHarness(t *testing.T) *queueHarness {
	t.Helper()
	env, err := environment.NewEnvironment("test", preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)

	h := &queueHarness{mem: memory.NewMemory(env)}
	h.core = native.NewSoftware(h.mem)
	h.q = NewQueue(env, h.core, func() { h.wakes++ }, func(l *List) { h.done = append(h.done, l.ID) })
	return h
}

func newTestList(id int) *List {
	return NewList(id, 0x08900000+uint32(id)*0x1000, 0, -1, 0, 0)
}

func expectPending(t *testing.T, q *Queue, expected ...*List) {
	t.Helper()
	p := q.Pending()
	if !test.ExpectEquality(t, len(p), len(expected)) {
		return
	}
	for i := range p {
		test.ExpectEquality(t, p[i], expected[i], i)
	}
}

func TestStartAndFinish(t *testing.T) {
	h := newQueueHarness(t)
	list1 := newTestList(1)
	list2 := newTestList(2)

	h.q.StartList(list1)
	h.q.StartList(list2)
	test.ExpectEquality(t, h.q.CurrentList(), list1)
	test.ExpectEquality(t, list1.Status(), Drawing)
	test.ExpectEquality(t, list2.Status(), Queued)
	expectPending(t, h.q, list2)
	test.ExpectSuccess(t, h.core.Active())

	h.q.FinishList(list1)
	test.ExpectEquality(t, h.q.CurrentList(), list2)
	test.ExpectEquality(t, list2.Status(), Drawing)
	test.ExpectEquality(t, list1.Status(), Done)
	test.ExpectSuccess(t, list1.IsDone())
	expectPending(t, h.q)

	h.q.FinishList(list2)
	test.ExpectEquality(t, h.q.CurrentList(), (*List)(nil))
	test.ExpectFailure(t, h.core.Active())

	// finishing a second time does nothing
	h.q.FinishList(list2)
	test.ExpectEquality(t, len(h.done), 2)
	test.ExpectEquality(t, h.wakes, 2)
}

func TestHeadInsertion(t *testing.T) {
	h := newQueueHarness(t)
	y := newTestList(0)
	a := newTestList(1)
	b := newTestList(2)
	x := newTestList(3)

	h.q.StartList(y)
	h.q.StartList(a)
	h.q.StartList(b)
	h.q.StartListHead(x)
	expectPending(t, h.q, x, a, b)

	test.ExpectEquality(t, h.q.FirstDrawList(), y)
	test.ExpectEquality(t, h.q.LastDrawList(), b)

	var order []*List
	for h.q.CurrentList() != nil {
		c := h.q.CurrentList()
		order = append(order, c)
		h.q.FinishList(c)
	}
	test.DemandEquality(t, len(order), 4)
	test.ExpectEquality(t, order[0], y)
	test.ExpectEquality(t, order[1], x)
	test.ExpectEquality(t, order[2], a)
	test.ExpectEquality(t, order[3], b)

	// with an empty queue the head list is promoted directly
	h.q.StartListHead(x)
	test.ExpectEquality(t, h.q.CurrentList(), x)
	test.ExpectEquality(t, h.q.LastDrawList(), x)
}

func TestSingleCurrentList(t *testing.T) {
	h := newQueueHarness(t)
	rnd := rand.New(rand.NewPCG(2600, 1))

	var lists []*List
	for i := range 1000 {
		switch rnd.IntN(4) {
		case 0:
			l := newTestList(i)
			lists = append(lists, l)
			h.q.StartList(l)
		case 1:
			l := newTestList(i)
			lists = append(lists, l)
			h.q.StartListHead(l)
		case 2:
			c := h.q.CurrentList()
			if c == nil {
				break
			}
			first := h.q.Pending()
			h.q.FinishList(c)

			// next pending list is promoted before FinishList() returns
			if len(first) > 0 {
				test.ExpectEquality(t, h.q.CurrentList(), first[0], i)
				test.ExpectEquality(t, first[0].Status(), Drawing, i)
			} else {
				test.ExpectEquality(t, h.q.CurrentList(), (*List)(nil), i)
			}
		case 3:
			if p := h.q.Pending(); len(p) > 0 {
				h.q.FinishList(p[rnd.IntN(len(p))])
			}
		}

		var drawing int
		for _, l := range lists {
			if l.Status() == Drawing {
				drawing++
				test.ExpectEquality(t, h.q.CurrentList(), l, i)
			}
		}
		test.ExpectSuccess(t, drawing <= 1, i)

		// current and pending are disjoint
		if c := h.q.CurrentList(); c != nil {
			for _, p := range h.q.Pending() {
				test.ExpectInequality(t, p, c, i)
			}
		}
	}
}

func TestDuplicateStart(t *testing.T) {
	h := newQueueHarness(t)
	a := newTestList(1)
	b := newTestList(2)

	h.q.StartList(a)
	h.q.StartList(a)
	h.q.StartList(b)
	h.q.StartListHead(b)
	expectPending(t, h.q, b)
	test.ExpectEquality(t, a.Status(), Drawing)
}

func TestStartReleased(t *testing.T) {
	h := newQueueHarness(t)
	a := newTestList(1)
	b := newTestList(2)

	h.q.StartList(a)
	h.q.FinishList(a)
	test.ExpectEquality(t, a.Status(), Done)

	// a released list is not queued again, from either end
	h.q.StartList(a)
	h.q.StartListHead(a)
	test.ExpectEquality(t, h.q.CurrentList(), (*List)(nil))
	test.ExpectEquality(t, a.Status(), Done)

	h.q.StartList(b)
	h.q.FinishList(a)
	test.ExpectEquality(t, h.q.CurrentList(), b)
	expectPending(t, h.q)

	h.q.FinishList(b)
	test.ExpectEquality(t, h.q.CurrentList(), (*List)(nil))
	test.ExpectEquality(t, len(h.done), 2)
}

func TestStallAndRestart(t *testing.T) {
	h := newQueueHarness(t)
	a := newTestList(1)
	b := newTestList(2)
	h.q.StartList(a)
	h.q.StartList(b)
	wakes := h.wakes

	// not current
	b.SetStallAddress(0x08001000)
	h.q.OnStallAddrUpdated(b)
	test.ExpectEquality(t, h.wakes, wakes)
	h.q.OnRestartList(b)
	test.ExpectEquality(t, b.Status(), Queued)

	a.SetStallAddress(0x08902000)
	h.q.OnStallAddrUpdated(a)
	test.ExpectEquality(t, h.core.StallAddress(), uint32(0x08902000))
	test.ExpectEquality(t, h.wakes, wakes+1)

	a.setStatus(StallReached)
	h.core.SetActive(false)
	h.q.OnRestartList(a)
	test.ExpectEquality(t, a.Status(), Drawing)
	test.ExpectSuccess(t, h.core.Active())
	test.ExpectEquality(t, h.wakes, wakes+2)
}

func TestRemoveAndUserStop(t *testing.T) {
	h := newQueueHarness(t)
	a := newTestList(1)
	b := newTestList(2)
	c := newTestList(3)
	h.q.StartList(a)
	h.q.StartList(b)
	h.q.StartList(c)

	test.ExpectFailure(t, h.q.RemoveList(a))
	test.ExpectSuccess(t, h.q.RemoveList(b))
	test.ExpectEquality(t, b.Status(), CancelDone)
	test.ExpectFailure(t, h.q.RemoveList(b))
	expectPending(t, h.q, c)

	h.q.OnUserStop()
	test.ExpectEquality(t, h.q.CurrentList(), (*List)(nil))
	expectPending(t, h.q)
	test.ExpectSuccess(t, a.IsDone())
	test.ExpectSuccess(t, c.IsDone())
	test.ExpectEquality(t, len(h.done), 3)
}

func TestContext(t *testing.T) {
	h := newQueueHarness(t)

	h.core.SetCommand(0x50, 0xaaaa)
	l := NewList(0, 0x08900000, 0, -1, 0x08a00000, 0)
	h.q.StartList(l)
	test.ExpectEquality(t, h.mem.Read32(0x08a00000+0x50*4), uint32(0xaaaa))

	h.core.SetCommand(0x50, 0xbbbb)
	h.q.FinishList(l)
	test.ExpectEquality(t, h.core.Command(0x50), uint32(0xaaaa))
}

func TestHasDrawList(t *testing.T) {
	h := newQueueHarness(t)

	a := NewList(0, 0x08900000, 0, -1, 0, 0x08a00000)
	b := NewList(1, 0x08910000, 0, -1, 0, 0)
	h.q.StartList(a)
	h.q.StartList(b)

	test.ExpectSuccess(t, h.q.HasDrawList(0x08900000, 0))
	test.ExpectSuccess(t, h.q.HasDrawList(0x08910000, 0))
	test.ExpectSuccess(t, h.q.HasDrawList(0x08920000, 0x08a00000))
	test.ExpectFailure(t, h.q.HasDrawList(0x08920000, 0))
}

// a list at EndReached is in use until it leaves the queue, which happens
// before the poll window is exhausted
func TestHasDrawListCompletion(t *testing.T) {
	h := newQueueHarness(t)
	l := newTestList(0)
	h.q.StartList(l)
	test.ExpectSuccess(t, h.q.HasDrawList(l.ListAddr, 0))

	l.setStatus(EndReached)
	go func() {
		time.Sleep(10 * time.Millisecond)
		h.q.FinishList(l)
	}()

	start := time.Now()
	test.ExpectFailure(t, h.q.HasDrawList(l.ListAddr, 0))
	test.ExpectSuccess(t, time.Since(start) < hasDrawListWindow)
}

// a list that stays at EndReached for the whole window is in use
func TestHasDrawListExhausted(t *testing.T) {
	h := newQueueHarness(t)
	l := newTestList(0)
	h.q.StartList(l)
	l.setStatus(EndReached)

	start := time.Now()
	test.ExpectSuccess(t, h.q.HasDrawList(l.ListAddr, 0))
	test.ExpectSuccess(t, time.Since(start) >= hasDrawListWindow)
}
