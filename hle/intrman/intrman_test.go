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

package intrman_test

import (
	"fmt"
	"testing"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/hardware/scheduler"
	"github.com/gopherpsp/gopherpsp/hardware/threadman"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
	"github.com/gopherpsp/gopherpsp/test"
)

type harness struct {
	cpu   *allegrex.Processor
	tm    *threadman.Manager
	sched *scheduler.Scheduler
	im    *intrman.Manager

	// record of handler activity
	order []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	env, err := environment.NewEnvironment("test", preferences.NewDefaultPreferences())
	test.DemandSuccess(t, err)

	h := &harness{
		cpu:   allegrex.NewProcessor(env),
		tm:    threadman.NewManager(env),
		sched: scheduler.NewScheduler(),
	}
	h.im = intrman.NewManager(env, h.cpu, h.tm, h.sched)
	h.cpu.SetInterruptsEnabledListener(h.im.OnInterruptsReEnabled)
	return h
}

func (h *harness) host(name string) *intrman.HostHandler {
	return &intrman.HostHandler{
		Name: name,
		Fn:   func() { h.order = append(h.order, name) },
	}
}

// guest installs guest code at addr that records its name and first argument
// and returns immediately
func (h *harness) guest(name string, addr uint32) {
	h.cpu.Install(addr, func(cpu *allegrex.Processor, ret func()) {
		h.order = append(h.order, fmt.Sprintf("%s(%d)", name, cpu.Arg(0)))
		ret()
	})
}

func (h *harness) expectOrder(t *testing.T, expected ...string) {
	t.Helper()
	if !test.ExpectEquality(t, len(h.order), len(expected)) {
		t.Logf("order: %v", h.order)
		return
	}
	for i := range expected {
		test.ExpectEquality(t, h.order[i], expected[i], i)
	}
}

func TestInterruptName(t *testing.T) {
	test.ExpectEquality(t, intrman.InterruptName(intrman.VBLANK), "VBLANK")
	test.ExpectEquality(t, intrman.InterruptName(intrman.GE), "GE")
	test.ExpectEquality(t, intrman.InterruptName(1), "INTERRUPT_1")
	test.ExpectEquality(t, intrman.InterruptName(0x2c), "INTERRUPT_2C")
	test.ExpectEquality(t, intrman.InterruptName(100), "INTERRUPT_64")
}

func TestRegistry(t *testing.T) {
	h := newHarness(t)

	a := h.host("a")
	b := h.host("b")

	// out of range and nil handlers are ignored
	h.im.AddHandler(-1, a)
	h.im.AddHandler(intrman.NumberInterrupts, a)
	h.im.AddHandler(intrman.GE, nil)
	h.im.AddHandler(intrman.GE, (*intrman.HostHandler)(nil))
	test.ExpectEquality(t, len(h.im.Handlers(intrman.GE)), 0)
	test.ExpectFailure(t, h.im.RemoveHandler(intrman.NumberInterrupts, a))
	test.ExpectEquality(t, len(h.im.Handlers(-1)), 0)

	h.im.AddHandler(intrman.GE, a)
	h.im.AddHandler(intrman.GE, b)
	h.im.AddHandler(intrman.GE, a)
	hs := h.im.Handlers(intrman.GE)
	test.DemandEquality(t, len(hs), 3)
	test.ExpectEquality(t, hs[0], intrman.Handler(a))
	test.ExpectEquality(t, hs[1], intrman.Handler(b))

	// first instance is removed
	test.ExpectSuccess(t, h.im.RemoveHandler(intrman.GE, a))
	hs = h.im.Handlers(intrman.GE)
	test.DemandEquality(t, len(hs), 2)
	test.ExpectEquality(t, hs[0], intrman.Handler(b))
	test.ExpectEquality(t, hs[1], intrman.Handler(a))

	// the returned list is a copy
	hs[0] = nil
	test.ExpectEquality(t, h.im.Handlers(intrman.GE)[0], intrman.Handler(b))

	test.ExpectFailure(t, h.im.RemoveHandler(intrman.VBLANK, a))

	sub := &intrman.SubIntrHandler{Address: 0x08900000, Sub: 3, Enabled: true}
	h.im.AddHandler(intrman.VBLANK, sub)
	test.ExpectEquality(t, h.im.SubIntrHandler(intrman.VBLANK, 3), sub)
	test.ExpectEquality(t, h.im.SubIntrHandler(intrman.VBLANK, 4), (*intrman.SubIntrHandler)(nil))
	test.ExpectEquality(t, h.im.SubIntrHandler(intrman.GE, 3), (*intrman.SubIntrHandler)(nil))
}

func TestHandlerOrdering(t *testing.T) {
	h := newHarness(t)

	h.guest("g1", 0x08900000)
	h.guest("g2", 0x08900100)
	h.guest("s", 0x08900200)

	h.im.AddHandler(intrman.SYSTIMER0, h.host("h1"))
	h.im.AddHandler(intrman.SYSTIMER0, &intrman.GuestHandler{Address: 0x08900000, GP: 0x08a00000, Args: []uint32{1}})
	h.im.AddHandler(intrman.SYSTIMER0, h.host("h2"))
	h.im.AddHandler(intrman.SYSTIMER0, &intrman.GuestHandler{Address: 0x08900100, Args: []uint32{2}})
	h.im.AddHandler(intrman.SYSTIMER0, &intrman.SubIntrHandler{Address: 0x08900200, Sub: 7, Enabled: true})
	h.im.AddHandler(intrman.SYSTIMER0, &intrman.SubIntrHandler{Address: 0x08900200, Sub: 8, Enabled: false})

	h.cpu.Regs.GPR[allegrex.S0] = 0x1234
	h.cpu.Regs.GPR[allegrex.GP] = 0x5678

	var afterHandler int
	var afterInterrupt bool
	h.im.Trigger(intrman.SYSTIMER0, func() {
		afterInterrupt = true
		test.ExpectEquality(t, afterHandler, 3)
		test.ExpectFailure(t, h.im.IsInsideInterrupt())
	}, func() {
		afterHandler++
		test.ExpectSuccess(t, h.im.IsInsideInterrupt())
	})

	// host handlers first then guest handlers, each in order of registration.
	// the disabled sub-interrupt is not called
	h.expectOrder(t, "h1", "h2", "g1(1)", "g2(2)", "s(7)")
	test.ExpectSuccess(t, afterInterrupt)

	// register context is restored
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.S0], uint32(0x1234))
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.GP], uint32(0x5678))

	st := h.im.Stats()
	test.ExpectEquality(t, st.Chains, 1)
	test.ExpectEquality(t, st.GuestCalls, 3)
	test.ExpectEquality(t, st.EndOfInterrupts, 1)
}

func TestGuestRegisters(t *testing.T) {
	h := newHarness(t)

	var gp, a0, a1 uint32
	h.cpu.Install(0x08900000, func(cpu *allegrex.Processor, ret func()) {
		gp = cpu.Regs.GPR[allegrex.GP]
		a0 = cpu.Arg(0)
		a1 = cpu.Arg(1)
		cpu.Regs.GPR[allegrex.S0] = 0xdead
		ret()
	})

	sub := &intrman.SubIntrHandler{Address: 0x08900000, GP: 0x08b00000, Argument: 99, Sub: 5, Enabled: true}
	h.im.AddHandler(intrman.GE, sub)
	h.im.Trigger(intrman.GE, nil, nil)

	test.ExpectEquality(t, gp, uint32(0x08b00000))
	test.ExpectEquality(t, a0, uint32(5))
	test.ExpectEquality(t, a1, uint32(99))
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.S0], uint32(0))
}

func TestAsynchronousGuest(t *testing.T) {
	h := newHarness(t)

	var ret func()
	h.cpu.Install(0x08900000, func(_ *allegrex.Processor, r func()) {
		h.order = append(h.order, "slow")
		ret = r
	})
	h.guest("fast", 0x08900100)

	h.im.AddHandler(intrman.AUDIO, &intrman.GuestHandler{Address: 0x08900000})
	h.im.AddHandler(intrman.AUDIO, &intrman.GuestHandler{Address: 0x08900100})

	var done bool
	h.im.Trigger(intrman.AUDIO, func() { done = true }, nil)

	// the second handler does not start until the first has returned
	h.expectOrder(t, "slow")
	test.ExpectSuccess(t, h.im.IsInsideInterrupt())
	test.ExpectFailure(t, h.im.CanExecuteNow())
	test.ExpectEquality(t, h.im.PendingGuestHandlers(), 1)
	test.ExpectFailure(t, done)

	// interrupts requested while inside an interrupt are deferred
	h.im.AddHandler(intrman.SYSTIMER1, h.host("timer"))
	h.im.Request(intrman.SYSTIMER1)
	test.ExpectEquality(t, h.im.Deferred(), 1)

	ret()
	h.expectOrder(t, "slow", "fast(0)", "timer")
	test.ExpectSuccess(t, done)
	test.ExpectFailure(t, h.im.IsInsideInterrupt())
	test.ExpectEquality(t, h.im.PendingGuestHandlers(), 0)
	test.ExpectEquality(t, h.im.Deferred(), 0)
}

func TestNestedTrigger(t *testing.T) {
	h := newHarness(t)

	h.guest("inner", 0x08900100)
	h.im.AddHandler(intrman.DMA0, &intrman.GuestHandler{Address: 0x08900100})

	h.cpu.Install(0x08900000, func(cpu *allegrex.Processor, ret func()) {
		h.order = append(h.order, "outer")
		cpu.Regs.GPR[allegrex.S1] = 0x1111
		h.im.Trigger(intrman.DMA0, nil, nil)

		// inner chain restores the outer handler's context
		test.ExpectEquality(t, cpu.Regs.GPR[allegrex.S1], uint32(0x1111))
		test.ExpectSuccess(t, h.im.IsInsideInterrupt())
		ret()
	})
	h.im.AddHandler(intrman.DMA1, &intrman.GuestHandler{Address: 0x08900000})

	h.im.Trigger(intrman.DMA1, nil, nil)
	h.expectOrder(t, "outer", "inner(0)")
	test.ExpectFailure(t, h.im.IsInsideInterrupt())
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.S1], uint32(0))
}

func TestChainsCompleteOutOfOrder(t *testing.T) {
	h := newHarness(t)

	var retA, retB func()
	h.cpu.Install(0x08900000, func(_ *allegrex.Processor, r func()) {
		h.order = append(h.order, "a")
		retA = r
	})
	h.cpu.Install(0x08900100, func(cpu *allegrex.Processor, r func()) {
		h.order = append(h.order, "b")
		cpu.Regs.GPR[allegrex.S1] = 0x2222
		retB = r
	})
	h.im.AddHandler(intrman.DMA0, &intrman.GuestHandler{Address: 0x08900000})
	h.im.AddHandler(intrman.DMA1, &intrman.GuestHandler{Address: 0x08900100})
	h.im.AddHandler(intrman.SYSTIMER1, h.host("timer"))

	h.im.Trigger(intrman.DMA0, func() { h.order = append(h.order, "a done") }, nil)
	h.cpu.Regs.GPR[allegrex.S1] = 0x1111
	h.im.Trigger(intrman.DMA1, func() { h.order = append(h.order, "b done") }, nil)
	h.expectOrder(t, "a", "b")

	// the first chain returns while the second is still running
	retA()
	test.ExpectSuccess(t, h.im.IsInsideInterrupt())
	test.ExpectFailure(t, h.im.CanExecuteNow())
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.S1], uint32(0x2222))
	h.expectOrder(t, "a", "b")

	h.im.Request(intrman.SYSTIMER1)
	test.ExpectEquality(t, h.im.Deferred(), 1)

	// completing the second chain completes both, innermost first
	retB()
	h.expectOrder(t, "a", "b", "b done", "a done", "timer")
	test.ExpectFailure(t, h.im.IsInsideInterrupt())
	test.ExpectEquality(t, h.cpu.Regs.GPR[allegrex.S1], uint32(0))
	test.ExpectEquality(t, h.im.Deferred(), 0)
}

func TestDeferredFlush(t *testing.T) {
	h := newHarness(t)

	h.im.AddHandler(intrman.SYSTIMER0, h.host("A"))
	h.im.AddHandler(intrman.SYSTIMER1, h.host("B"))

	h.cpu.DisableInterrupts()
	h.im.Request(intrman.SYSTIMER0)
	h.im.Request(intrman.SYSTIMER1)
	h.im.Request(intrman.SYSTIMER0)
	h.expectOrder(t)
	test.ExpectEquality(t, h.im.Deferred(), 3)

	h.cpu.EnableInterrupts()
	h.expectOrder(t, "A", "B", "A")
	test.ExpectEquality(t, h.im.Deferred(), 0)

	st := h.im.Stats()
	test.ExpectEquality(t, st.Deferred, 3)
	test.ExpectEquality(t, st.Flushes, 1)
}

func TestDeferredGuestHandlers(t *testing.T) {
	h := newHarness(t)

	h.guest("g", 0x08900000)
	h.im.AddHandler(intrman.UMD, h.host("h"))
	h.im.AddHandler(intrman.UMD, &intrman.GuestHandler{Address: 0x08900000, Args: []uint32{1}})

	h.cpu.DisableInterrupts()
	h.im.Request(intrman.UMD)
	h.im.RequestSingle(intrman.UMD, &intrman.GuestHandler{Address: 0x08900000, Args: []uint32{2}})
	h.im.Request(intrman.UMD)

	// flushing runs every host pass before the guest handlers
	h.cpu.EnableInterrupts()
	h.expectOrder(t, "h", "h", "g(1)", "g(2)", "g(1)")
	test.ExpectEquality(t, h.im.Stats().Chains, 1)
}

func TestTriggerSingle(t *testing.T) {
	h := newHarness(t)

	h.guest("s", 0x08900000)
	h.im.AddHandler(intrman.VBLANK, h.host("registered"))

	// a disabled sub-interrupt is still called when triggered singly. the
	// registered handlers of the line are not run
	sub := &intrman.SubIntrHandler{Address: 0x08900000, Sub: 2}
	var done bool
	h.im.TriggerSingle(intrman.VBLANK, sub, func() { done = true }, nil)
	h.expectOrder(t, "s(2)")
	test.ExpectSuccess(t, done)

	// a line without handlers is a legal trigger
	done = false
	h.im.Trigger(intrman.MSCM2, func() { done = true }, nil)
	test.ExpectSuccess(t, done)

	// nil handlers are skipped
	h.im.TriggerSingle(intrman.VBLANK, nil, nil, nil)
	h.im.DeferInterrupt(nil)
	test.ExpectEquality(t, h.im.Deferred(), 0)
	test.ExpectEquality(t, h.im.Stats().EndOfInterrupts, 3)
}

func TestRequestAfter(t *testing.T) {
	h := newHarness(t)

	h.im.AddHandler(intrman.SYSTIMER2, h.host("timer"))
	h.im.RequestAfter(intrman.SYSTIMER2, 500)

	h.sched.Advance(499)
	h.expectOrder(t)
	h.sched.Advance(500)
	h.expectOrder(t, "timer")

	// invalid lines are ignored
	h.im.Request(intrman.NumberInterrupts)
	test.ExpectEquality(t, h.im.Deferred(), 0)
}

func TestRescheduleAtEndOfInterrupt(t *testing.T) {
	h := newHarness(t)

	main, _ := h.tm.CreateThread("main", 0, 0x20)
	worker, _ := h.tm.CreateThread("worker", 0, 0x10)
	test.DemandSuccess(t, h.tm.StartThread(worker.ID))
	h.tm.BlockCurrent("vblank")
	test.DemandSuccess(t, h.tm.StartThread(main.ID))
	test.DemandEquality(t, h.tm.CurrentThread(), main)

	h.im.AddHandler(intrman.VBLANK, &intrman.HostHandler{Name: "wakeup", Fn: func() {
		_ = h.tm.Unblock(worker.ID)
	}})
	h.im.Trigger(intrman.VBLANK, nil, nil)
	test.ExpectEquality(t, h.tm.CurrentThread(), worker)
}

func TestVBlank(t *testing.T) {
	h := newHarness(t)

	h.im.AddHandler(intrman.VBLANK, h.host("registered"))
	h.im.Start()
	h.im.Start()

	// the vblank handler is the first handler of the line
	hs := h.im.Handlers(intrman.VBLANK)
	test.DemandEquality(t, len(hs), 2)
	_, ok := hs[0].(*intrman.VBlankHandler)
	test.ExpectSuccess(t, ok)

	h.im.AddVBlankAction(func() { h.order = append(h.order, "p1") })
	p2 := h.im.AddVBlankAction(func() { h.order = append(h.order, "p2") })
	h.im.AddVBlankActionOnce(func() { h.order = append(h.order, "once") })

	h.sched.Advance(16666)
	h.expectOrder(t)

	h.sched.Advance(16667)
	h.expectOrder(t, "p1", "p2", "once", "registered")

	test.ExpectSuccess(t, h.im.RemoveVBlankAction(p2))
	test.ExpectFailure(t, h.im.RemoveVBlankAction(p2))

	h.order = h.order[:0]
	h.sched.Advance(16667 * 3)
	h.expectOrder(t, "p1", "registered", "p1", "registered")
	test.ExpectEquality(t, h.im.Stats().VBlanks, 3)

	// only one vblank is ever scheduled
	test.ExpectEquality(t, h.sched.Pending(), 1)
	next, _ := h.sched.NextAction()
	test.ExpectEquality(t, next, uint64(16667*4))

	h.im.Stop()
	test.ExpectEquality(t, h.sched.Pending(), 0)
	h.order = h.order[:0]
	h.sched.Advance(16667 * 10)
	h.expectOrder(t)
}

func TestVBlankDeferred(t *testing.T) {
	h := newHarness(t)
	h.im.Start()

	var count int
	h.im.AddVBlankAction(func() { count++ })

	h.cpu.DisableInterrupts()
	h.sched.Advance(16667 * 2)
	test.ExpectEquality(t, count, 0)
	test.ExpectEquality(t, h.im.Deferred(), 2)

	// the vblank continues to re-arm while deferred
	next, _ := h.sched.NextAction()
	test.ExpectEquality(t, next, uint64(16667*3))

	h.cpu.EnableInterrupts()
	test.ExpectEquality(t, count, 2)
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.im.Start()
	h.im.AddHandler(intrman.GE, h.host("ge"))
	h.cpu.DisableInterrupts()
	h.im.Request(intrman.GE)

	h.im.Reset()
	test.ExpectEquality(t, len(h.im.Handlers(intrman.GE)), 0)
	test.ExpectEquality(t, len(h.im.Handlers(intrman.VBLANK)), 0)
	test.ExpectEquality(t, h.im.Deferred(), 0)
	test.ExpectEquality(t, h.im.Stats(), intrman.Stats{})
	test.ExpectEquality(t, h.sched.Pending(), 0)

	// the vblank can be started again after a reset
	h.im.Start()
	test.ExpectEquality(t, len(h.im.Handlers(intrman.VBLANK)), 1)
}
