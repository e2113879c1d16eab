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

package ge_test

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/ge"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/notifications"
	"github.com/gopherpsp/gopherpsp/test"
)

type notices struct {
	crit sync.Mutex
	got  []string
}

func (n *notices) Notify(notice notifications.Notice, args ...int) error {
	n.crit.Lock()
	defer n.crit.Unlock()
	n.got = append(n.got, fmt.Sprintf("%s %v", notice, args))
	return nil
}

func (n *notices) expect(t *testing.T, expected ...string) {
	t.Helper()
	n.crit.Lock()
	defer n.crit.Unlock()
	if !test.ExpectEquality(t, len(n.got), len(expected)) {
		t.Logf("notices: %v", n.got)
		return
	}
	for i := range expected {
		test.ExpectEquality(t, n.got[i], expected[i], i)
	}
}

type engineHarness struct {
	mem     *memory.Memory
	core    *native.Software
	notices *notices
	e       *ge.Engine
}

func newEngineHarness(t *testing.T, threads int) *engineHarness {
	t.Helper()
	prefs := preferences.NewDefaultPreferences()
	test.DemandSuccess(t, prefs.RenderThreads.Set(threads))
	env, err := environment.NewEnvironment("test", prefs)
	test.DemandSuccess(t, err)

	h := &engineHarness{
		mem:     memory.NewMemory(env),
		notices: &notices{},
	}
	h.core = native.NewSoftware(h.mem)
	h.e, err = ge.NewEngine(env, h.mem, h.core, h.notices)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, h.e.RenderThreads(), threads)

	test.DemandSuccess(t, h.e.Start())
	t.Cleanup(func() {
		test.ExpectSuccess(t, h.e.Stop())
	})
	return h
}

func (h *engineHarness) write(addr uint32, words ...uint32) {
	for i, w := range words {
		h.mem.Write32(addr+uint32(i*4), w)
	}
}

func (h *engineHarness) wait(t *testing.T, l *ge.List) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	test.DemandSuccess(t, h.e.Wait(ctx, l))
}

// wait for a list to reach a status
func (h *engineHarness) waitStatus(t *testing.T, l *ge.List, s ge.Status) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for l.Status() != s {
		if time.Now().After(deadline) {
			t.Fatalf("list status is %s, expected %s", l.Status(), s)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDrawSprites(t *testing.T) {
	for _, threads := range []int{0, 1, 3, 8} {
		h := newEngineHarness(t, threads)

		h.write(0x08900000,
			ge.Command(ge.BASE, 0x080000),
			ge.Command(ge.VADDR, 0x910000),
			ge.Command(ge.PRIM, ge.Prim(ge.PrimSprites, 2)),
			ge.Command(ge.FINISH, 0x1234),
			ge.Command(ge.END, 0),
		)
		p0, c0 := ge.Vertex(10, 20, 0)
		p1, c1 := ge.Vertex(30, 40, 0xff0000ff)
		h.write(0x08910000, p0, c0, p1, c1)

		l, err := h.e.NewList(0x08900000, 0, 3, 0, 0)
		test.DemandSuccess(t, err)
		h.e.Queue().StartList(l)
		h.wait(t, l)

		test.ExpectEquality(t, l.Status(), ge.Done)
		test.ExpectEquality(t, h.e.Frames(), 1)
		h.notices.expect(t,
			"NotifyFrameRendered []",
			"NotifyGeFinish [0 3 4660]",
			"NotifyGeListDone [0]",
		)

		img, frames := h.core.Frame()
		test.ExpectEquality(t, frames, 1)
		red := color.RGBA{R: 0xff, A: 0xff}
		for y := 20; y < 40; y++ {
			test.ExpectEquality(t, img.RGBAAt(15, y), red, threads, y)
		}
		test.ExpectEquality(t, img.RGBAAt(15, 40), color.RGBA{}, threads)
		test.ExpectEquality(t, img.RGBAAt(30, 25), color.RGBA{}, threads)

		// the list id is available again
		_, err = h.e.List(l.ID)
		test.ExpectFailure(t, err)
	}
}

func TestStall(t *testing.T) {
	h := newEngineHarness(t, 2)

	h.write(0x08900000,
		ge.Command(ge.NOP, 0),
		ge.Command(ge.NOP, 0),
		ge.Command(ge.FINISH, 0),
		ge.Command(ge.END, 0),
	)

	l, err := h.e.NewList(0x08900000, 0x08900008, -1, 0, 0)
	test.DemandSuccess(t, err)
	h.e.Queue().StartList(l)
	h.waitStatus(t, l, ge.StallReached)
	test.ExpectEquality(t, h.core.StallAddress(), uint32(0x08900008))

	l.SetStallAddress(0)
	h.e.Queue().OnStallAddrUpdated(l)
	h.wait(t, l)
	test.ExpectEquality(t, h.e.Frames(), 1)
}

func TestBreakAndContinue(t *testing.T) {
	h := newEngineHarness(t, 2)

	h.write(0x08900000,
		ge.Command(ge.NOP, 0),
		ge.Command(ge.FINISH, 0),
		ge.Command(ge.END, 0),
	)

	l, err := h.e.NewList(0x08900000, 0x08900004, -1, 0, 0)
	test.DemandSuccess(t, err)
	h.e.Queue().StartList(l)
	h.waitStatus(t, l, ge.StallReached)

	b, err := h.e.Break()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b, l)
	test.ExpectEquality(t, l.Status(), ge.Paused)

	// a paused list is not drawn even if the stall address moves
	l.SetStallAddress(0)
	h.e.Queue().OnStallAddrUpdated(l)
	time.Sleep(10 * time.Millisecond)
	test.ExpectEquality(t, l.Status(), ge.Paused)

	_, err = h.e.Continue()
	test.DemandSuccess(t, err)
	h.wait(t, l)

	_, err = h.e.Continue()
	test.ExpectFailure(t, err)
	_, err = h.e.Break()
	test.ExpectFailure(t, err)
}

func TestBreakWhileDrawing(t *testing.T) {
	h := newEngineHarness(t, 0)

	prg := make([]uint32, 0, 4099)
	for range 4096 {
		prg = append(prg, ge.Command(ge.NOP, 0))
	}
	prg = append(prg, ge.Command(ge.FINISH, 0), ge.Command(ge.END, 0))
	h.write(0x08900000, prg...)

	l, err := h.e.NewList(0x08900000, 0, -1, 0, 0)
	test.DemandSuccess(t, err)
	h.e.Queue().StartList(l)

	// a successful break always leaves a list that can be continued
	var breaks int
	deadline := time.Now().Add(5 * time.Second)
	for !l.IsDone() {
		if time.Now().After(deadline) {
			t.Fatalf("list did not complete: %s", l)
		}
		if _, err := h.e.Break(); err != nil {
			continue
		}
		breaks++
		test.ExpectEquality(t, l.Status(), ge.Paused)
		_, err := h.e.Continue()
		test.DemandSuccess(t, err)
	}
	h.wait(t, l)
	test.ExpectEquality(t, l.Status(), ge.Done)
	t.Logf("%d breaks", breaks)
}

func TestCallAndJump(t *testing.T) {
	h := newEngineHarness(t, 1)

	h.write(0x08900000,
		ge.Command(ge.CALL, 0x900100),
		ge.Command(ge.JUMP, 0x900200),
	)
	h.write(0x08900100,
		ge.Command(ge.WMS, 1),
		ge.Command(ge.WORLDD, 0x3f8000),
		ge.Command(ge.WORLDD, 0x400000),
		ge.Command(ge.RET, 0),
	)
	h.write(0x08900200,
		ge.Command(ge.FINISH, 0),
		ge.Command(ge.END, 0),
	)

	l, err := h.e.NewList(0x08900000, 0, -1, 0, 0)
	test.DemandSuccess(t, err)
	h.e.Queue().StartList(l)
	h.wait(t, l)

	m := h.core.Matrix(native.MatrixWorld)
	test.ExpectEquality(t, m[0], float32(0))
	test.ExpectEquality(t, m[1], float32(1.0))
	test.ExpectEquality(t, m[2], float32(2.0))

	// every command is stored in the command array
	test.ExpectEquality(t, h.core.Command(ge.RET), ge.Command(ge.RET, 0))
}

func TestSignal(t *testing.T) {
	h := newEngineHarness(t, 2)

	h.write(0x08900000,
		ge.Command(ge.SIGNAL, 0x10055),
		ge.Command(ge.END, 0),
		ge.Command(ge.FINISH, 0x77),
		ge.Command(ge.END, 0),
	)

	l, err := h.e.NewList(0x08900000, 0, 5, 0, 0)
	test.DemandSuccess(t, err)
	h.e.Queue().StartList(l)
	h.wait(t, l)

	h.notices.expect(t,
		"NotifyGeSignal [0 5 85]",
		"NotifyFrameRendered []",
		"NotifyGeFinish [0 5 119]",
		"NotifyGeListDone [0]",
	)
}

func TestQueueOrder(t *testing.T) {
	h := newEngineHarness(t, 4)

	var lists []*ge.List
	for i := range 3 {
		addr := 0x08900000 + uint32(i)*0x100
		h.write(addr, ge.Command(ge.FINISH, uint32(i)), ge.Command(ge.END, 0))

		// the first list stalls until every list has been queued
		stall := uint32(0)
		if i == 0 {
			stall = addr
		}
		l, err := h.e.NewList(addr, stall, -1, 0, 0)
		test.DemandSuccess(t, err)
		lists = append(lists, l)
	}

	h.e.Queue().StartList(lists[0])
	h.e.Queue().StartList(lists[1])
	h.e.Queue().StartListHead(lists[2])
	test.ExpectEquality(t, h.e.DrawStatus(), ge.Drawing)

	lists[0].SetStallAddress(0)
	h.e.Queue().OnStallAddrUpdated(lists[0])

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	test.DemandSuccess(t, h.e.DrawSync(ctx))
	test.ExpectEquality(t, h.e.DrawStatus(), ge.Done)

	h.notices.expect(t,
		"NotifyFrameRendered []", "NotifyGeFinish [0 -1 0]", "NotifyGeListDone [0]",
		"NotifyFrameRendered []", "NotifyGeFinish [2 -1 2]", "NotifyGeListDone [2]",
		"NotifyFrameRendered []", "NotifyGeFinish [1 -1 1]", "NotifyGeListDone [1]",
	)
}

func TestListAllocation(t *testing.T) {
	h := newEngineHarness(t, 1)

	for i := range ge.MaxLists {
		l, err := h.e.NewList(0x08900000+uint32(i)*0x10, 0x08900000+uint32(i)*0x10, -1, 0, 0)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, l.ID, i)
	}
	_, err := h.e.NewList(0x08a00000, 0, -1, 0, 0)
	test.ExpectEquality(t, err, ge.ErrNoFreeList)

	_, err = h.e.List(ge.MaxLists)
	test.ExpectEquality(t, err, ge.ErrNoList)
	l, err := h.e.List(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, l.ID, 10)

	// a reset releases the queued list and its id
	h.e.Queue().StartList(l)
	h.e.Reset()
	test.ExpectSuccess(t, l.IsDone())
	_, err = h.e.NewList(0x08a00000, 0, -1, 0, 0)
	test.DemandSuccess(t, err)
}
