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

package intrman

import (
	"github.com/gopherpsp/gopherpsp/assert"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/logger"
)

// deliveryContext is the state of a chain of guest handlers.
type deliveryContext struct {
	// register context at the start of the chain
	regs allegrex.Registers

	// every guest handler has returned. the chain is removed once every
	// chain started after it has also completed
	complete bool

	calls  []guestCall
	cursor int

	afterHandler   func()
	afterInterrupt func()
}

// remaining returns the number of guest handlers not yet called.
func (dc *deliveryContext) remaining() int {
	return len(dc.calls) - dc.cursor
}

// CanExecuteNow returns true if an interrupt can be delivered immediately.
func (im *Manager) CanExecuteNow() bool {
	return !im.insideInterrupt && im.cpu.InterruptsEnabled()
}

// IsInsideInterrupt returns true while guest interrupt handlers are running.
func (im *Manager) IsInsideInterrupt() bool {
	return im.insideInterrupt
}

// PendingGuestHandlers returns the number of guest handlers collected for
// delivery that have not yet been called.
func (im *Manager) PendingGuestHandlers() int {
	var n int
	for _, dc := range im.chains {
		n += dc.remaining()
	}
	return n
}

// Deferred returns the number of interrupts waiting to be delivered.
func (im *Manager) Deferred() int {
	return len(im.deferred)
}

// Trigger an interrupt line. Every handler of the line is executed in order
// of registration, host handlers immediately and guest handlers once every
// host handler has returned. The afterHandler function is run after each
// guest handler returns and afterInterrupt is run once the interrupt is
// complete. Both functions can be nil.
//
// Trigger does not check whether the interrupt can be delivered. Use
// Request() for that.
func (im *Manager) Trigger(line int, afterInterrupt func(), afterHandler func()) {
	assert.OnEmulationGoroutine("intrman.Trigger")
	im.stats.Triggers++

	var calls []guestCall
	for _, h := range im.Handlers(line) {
		calls = im.execute(h, calls, false)
	}
	im.deliver(calls, afterInterrupt, afterHandler)
}

// TriggerSingle delivers a single handler on an interrupt line. The handlers
// registered for the line are not executed. A sub-interrupt handler is
// called even if it is disabled.
func (im *Manager) TriggerSingle(line int, h Handler, afterInterrupt func(), afterHandler func()) {
	assert.OnEmulationGoroutine("intrman.TriggerSingle")
	im.stats.Triggers++

	if isNil(h) {
		logger.Logf(im.env, "intrman", "%s: nil handler", InterruptName(line))
	}
	calls := im.execute(h, nil, true)
	im.deliver(calls, afterInterrupt, afterHandler)
}

// deliver the guest calls collected by the host pass.
func (im *Manager) deliver(calls []guestCall, afterInterrupt func(), afterHandler func()) {
	if len(calls) == 0 {
		if afterInterrupt != nil {
			afterInterrupt()
		}
		im.onEndOfInterrupt()
		return
	}

	dc := &deliveryContext{
		regs:           im.cpu.Snapshot(),
		calls:          calls,
		afterHandler:   afterHandler,
		afterInterrupt: afterInterrupt,
	}
	im.insideInterrupt = true
	im.chains = append(im.chains, dc)
	im.stats.Chains++

	im.continueChain(dc)
}

// continueChain calls the remaining guest handlers of the chain. Each
// handler must return before the next is called. Guest code that returns
// during the call is followed by the next handler in the same loop. Guest
// code that returns later resumes the chain from the return continuation.
func (im *Manager) continueChain(dc *deliveryContext) {
	for dc.cursor < len(dc.calls) {
		c := dc.calls[dc.cursor]
		dc.cursor++

		im.cpu.SetRegister(allegrex.GP, c.gp)
		im.cpu.SetArgs(c.args...)
		im.stats.GuestCalls++

		synchronous := true
		waiting := true
		im.cpu.Call(c.address, func() {
			waiting = false
			if dc.afterHandler != nil {
				dc.afterHandler()
			}
			if !synchronous {
				im.continueChain(dc)
			}
		})
		synchronous = false

		if waiting {
			return
		}
	}

	im.endChain(dc)
}

// endChain marks the chain as complete and removes completed chains from
// the top of the chain stack. Chains are removed in the reverse order they
// were started: a chain that completes while a chain started after it is
// still running keeps its state until that chain has also completed.
func (im *Manager) endChain(dc *deliveryContext) {
	dc.complete = true

	for len(im.chains) > 0 {
		top := im.chains[len(im.chains)-1]
		if !top.complete {
			return
		}
		im.chains = im.chains[:len(im.chains)-1]
		im.cpu.Restore(top.regs)
		im.insideInterrupt = len(im.chains) > 0

		if top.afterInterrupt != nil {
			top.afterInterrupt()
		}
		im.onEndOfInterrupt()
	}
}

// onEndOfInterrupt runs at the end of every delivered interrupt, whether or
// not any guest handlers ran.
func (im *Manager) onEndOfInterrupt() {
	im.stats.EndOfInterrupts++
	im.threads.RescheduleCurrentThread()
	im.OnInterruptsReEnabled()
}

// DeferInterrupt adds a handler to the deferred queue. It will be executed
// the next time interrupts are delivered.
func (im *Manager) DeferInterrupt(h Handler) {
	if isNil(h) {
		return
	}
	im.deferred = append(im.deferred, h)
	im.stats.Deferred++
	if im.env.Prefs.LogDeferred.Get().(bool) {
		logger.Logf(im.env, "intrman", "deferred %s (%d waiting)", h, len(im.deferred))
	}
}

// Request an interrupt line. The line is triggered immediately if possible
// and deferred otherwise.
func (im *Manager) Request(line int) {
	if !IsValidLine(line) {
		logger.Logf(im.env, "intrman", "request of invalid line %d", line)
		return
	}
	if im.CanExecuteNow() {
		im.Trigger(line, nil, nil)
		return
	}
	im.DeferInterrupt(&lineHandler{line: line})
}

// RequestSingle delivers a single handler. The handler is delivered
// immediately if possible and deferred otherwise.
func (im *Manager) RequestSingle(line int, h Handler) {
	if im.CanExecuteNow() {
		im.TriggerSingle(line, h, nil, nil)
		return
	}
	im.DeferInterrupt(h)
}

// RequestAfter requests an interrupt line after a number of microseconds of
// virtual time.
func (im *Manager) RequestAfter(line int, micros uint64) {
	im.sched.AddAction(im.sched.Now()+micros, func() {
		im.Request(line)
	})
}

// OnInterruptsReEnabled delivers deferred interrupts if delivery is
// possible. The CPU calls this when interrupts are enabled and it is called
// at the end of every interrupt.
//
// The deferred queue is emptied before any handler is executed, so handlers
// being delivered are never deferred a second time. Host handlers of every
// deferred interrupt run first, in the order they were deferred, followed by
// the guest handlers as a single chain.
func (im *Manager) OnInterruptsReEnabled() {
	if len(im.deferred) == 0 || !im.CanExecuteNow() {
		return
	}

	deferred := im.deferred
	im.deferred = nil
	im.stats.Flushes++

	var calls []guestCall
	for _, h := range deferred {
		im.stats.Triggers++
		calls = im.execute(h, calls, true)
	}
	im.deliver(calls, nil, nil)
}
