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

package geuser

import (
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/gopherpsp/gopherpsp/assert"
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hardware/ge"
	"github.com/gopherpsp/gopherpsp/hardware/ge/native"
	"github.com/gopherpsp/gopherpsp/hardware/memory"
	"github.com/gopherpsp/gopherpsp/hardware/scheduler"
	"github.com/gopherpsp/gopherpsp/hardware/threadman"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
	"github.com/gopherpsp/gopherpsp/hle/kernelerr"
	"github.com/gopherpsp/gopherpsp/logger"
	"github.com/gopherpsp/gopherpsp/notifications"
)

// MaxCallbacks is the number of GE callbacks that can be set at once.
const MaxCallbacks = 16

// sync modes
const (
	SyncWait = 0
	SyncPeek = 1
)

// Callback are the guest functions called on FINISH and SIGNAL commands. A
// zero address means no function.
type Callback struct {
	Signal    uint32
	SignalArg uint32
	Finish    uint32
	FinishArg uint32

	// GP register at the time the callback was set
	GP uint32
}

// Threads is the part of the thread manager used by the module.
type Threads interface {
	CurrentThread() *threadman.Thread
	BlockCurrent(reason string) *threadman.Thread
	Unblock(id int) error
}

// Scheduler is used to pass notifications to the emulation goroutine.
type Scheduler interface {
	Now() uint64
	AddAction(at uint64, fn func()) *scheduler.Entry
}

// a thread waiting for a list, or for every list if list is nil
type waiter struct {
	thread int
	list   *ge.List
}

// Module is the sceGe_user module.
type Module struct {
	env     *environment.Environment
	mem     memory.Bus
	cpu     *allegrex.Processor
	engine  *ge.Engine
	im      *intrman.Manager
	threads Threads
	sched   Scheduler

	callbacks [MaxCallbacks]*Callback
	waiters   []waiter

	// counters
	Finishes int
	Signals  int
}

// NewModule is the preferred method of initialisation for the Module type.
// The engine should be created with the Module as its notifications.Notify
// implementation, so the engine is attached after construction with
// AttachEngine().
func NewModule(env *environment.Environment, mem memory.Bus, cpu *allegrex.Processor, im *intrman.Manager, threads Threads, sched Scheduler) *Module {
	return &Module{
		env:     env,
		mem:     mem,
		cpu:     cpu,
		im:      im,
		threads: threads,
		sched:   sched,
	}
}

// AttachEngine sets the GE engine used by the syscalls.
func (m *Module) AttachEngine(engine *ge.Engine) {
	m.engine = engine
}

func (m *Module) String() string {
	var n int
	for _, cb := range m.callbacks {
		if cb != nil {
			n++
		}
	}
	return fmt.Sprintf("%d callbacks, %d waiting threads", n, len(m.waiters))
}

// Reset removes every callback and waiting thread.
func (m *Module) Reset() {
	m.callbacks = [MaxCallbacks]*Callback{}
	m.waiters = nil
	m.Finishes = 0
	m.Signals = 0
}

func (m *Module) result(syscall string, v uint32, err error) uint32 {
	if err != nil {
		logger.Logf(m.env, "geuser", "%s: %v", syscall, err)
	}
	return kernelerr.Result(v, err)
}

// Notify implements the notifications.Notify interface. It is called on the
// GE goroutine.
func (m *Module) Notify(notice notifications.Notice, args ...int) error {
	switch notice {
	case notifications.NotifyGeFinish, notifications.NotifyGeSignal:
		if len(args) != 3 {
			return errors.Errorf("geuser: %s expects 3 arguments (%d)", notice, len(args))
		}
		m.sched.AddAction(m.sched.Now(), func() {
			m.callback(notice, args[1], uint32(args[2]))
		})
	case notifications.NotifyGeListDone:
		m.sched.AddAction(m.sched.Now(), m.wakeWaiters)
	case notifications.NotifyFrameRendered:
	default:
		return errors.Errorf("geuser: unexpected notification %s", notice)
	}
	return nil
}

// callback raises a GE interrupt for the callback. runs on the emulation
// goroutine
func (m *Module) callback(notice notifications.Notice, cbid int, arg uint32) {
	assert.OnEmulationGoroutine("geuser.callback")

	if notice == notifications.NotifyGeFinish {
		m.Finishes++
	} else {
		m.Signals++
	}

	if cbid < 0 || cbid >= MaxCallbacks || m.callbacks[cbid] == nil {
		return
	}
	cb := m.callbacks[cbid]

	addr, cbarg := cb.Finish, cb.FinishArg
	if notice == notifications.NotifyGeSignal {
		addr, cbarg = cb.Signal, cb.SignalArg
	}
	if addr == 0 {
		return
	}

	m.im.RequestSingle(intrman.GE, &intrman.GuestHandler{
		Address: addr,
		GP:      cb.GP,
		Args:    []uint32{arg, cbarg},
	})
}

// wakeWaiters unblocks threads waiting for lists that are complete. runs on
// the emulation goroutine
func (m *Module) wakeWaiters() {
	assert.OnEmulationGoroutine("geuser.wakeWaiters")

	drawn := m.engine.DrawStatus() == ge.Done
	m.waiters = slices.DeleteFunc(m.waiters, func(w waiter) bool {
		if (w.list != nil && w.list.IsDone()) || (w.list == nil && drawn) {
			if err := m.threads.Unblock(w.thread); err != nil {
				logger.Log(m.env, "geuser", err)
			}
			return true
		}
		return false
	})
}

// block the current thread until the list is done
func (m *Module) block(reason string, l *ge.List) {
	if m.threads.CurrentThread() == nil {
		return
	}
	th := m.threads.BlockCurrent(reason)
	m.waiters = append(m.waiters, waiter{thread: th.ID, list: l})
}

// the optional argument block of ListEnQueue
type listArgs struct {
	contextAddr uint32
	stackAddr   uint32
}

func (m *Module) readListArgs(addr uint32) (listArgs, error) {
	var a listArgs
	if addr == 0 {
		return a, nil
	}
	if !m.mem.IsAddressGood(addr) {
		return a, kernelerr.ErrInvalidPointer
	}
	size := m.mem.Read32(addr)
	if size >= 8 {
		a.contextAddr = m.mem.Read32(addr + 4)
	}
	if size >= 16 {
		a.stackAddr = m.mem.Read32(addr + 12)
	}
	return a, nil
}

func (m *Module) enqueue(listAddr uint32, stallAddr uint32, cbid int, argAddr uint32, head bool) (uint32, error) {
	if !m.mem.IsAddressGood(listAddr) {
		return 0, kernelerr.ErrInvalidPointer
	}
	args, err := m.readListArgs(argAddr)
	if err != nil {
		return 0, err
	}
	if m.engine.Queue().HasDrawList(listAddr, args.stackAddr) {
		return 0, kernelerr.ErrBusy
	}
	l, err := m.engine.NewList(listAddr, stallAddr, cbid, args.contextAddr, args.stackAddr)
	if err != nil {
		return 0, kernelerr.ErrOutOfMemory
	}
	if head {
		m.engine.Queue().StartListHead(l)
	} else {
		m.engine.Queue().StartList(l)
	}
	return uint32(l.ID), nil
}

// ListEnQueue adds a list to the end of the draw list queue. Returns the
// list id.
func (m *Module) ListEnQueue(listAddr uint32, stallAddr uint32, cbid int, argAddr uint32) uint32 {
	v, err := m.enqueue(listAddr, stallAddr, cbid, argAddr, false)
	return m.result("ListEnQueue", v, err)
}

// ListEnQueueHead adds a list to the front of the draw list queue. Returns the
// list id.
func (m *Module) ListEnQueueHead(listAddr uint32, stallAddr uint32, cbid int, argAddr uint32) uint32 {
	v, err := m.enqueue(listAddr, stallAddr, cbid, argAddr, true)
	return m.result("ListEnQueueHead", v, err)
}

func (m *Module) list(id int) (*ge.List, error) {
	l, err := m.engine.List(id)
	if err != nil {
		return nil, kernelerr.ErrInvalidID
	}
	return l, nil
}

// ListDeQueue removes a list that has not started drawing.
func (m *Module) ListDeQueue(id int) uint32 {
	err := func() error {
		l, err := m.list(id)
		if err != nil {
			return err
		}
		if !m.engine.Queue().RemoveList(l) {
			return kernelerr.ErrBusy
		}
		return nil
	}()
	return m.result("ListDeQueue", 0, err)
}

// ListUpdateStallAddr moves the stall address of a list.
func (m *Module) ListUpdateStallAddr(id int, stallAddr uint32) uint32 {
	err := func() error {
		l, err := m.list(id)
		if err != nil {
			return err
		}
		l.SetStallAddress(stallAddr)
		m.engine.Queue().OnStallAddrUpdated(l)
		return nil
	}()
	return m.result("ListUpdateStallAddr", 0, err)
}

// ListSync returns the status of a list in SyncPeek mode. In SyncWait mode
// the current thread waits until the list is complete.
func (m *Module) ListSync(id int, mode int) uint32 {
	v, err := func() (uint32, error) {
		if mode != SyncWait && mode != SyncPeek {
			return 0, kernelerr.ErrInvalidMode
		}
		l, err := m.list(id)
		if err != nil {
			return 0, err
		}
		if mode == SyncPeek {
			return uint32(l.Status()), nil
		}
		if !l.IsDone() {
			m.block("ge list sync", l)
		}
		return 0, nil
	}()
	return m.result("ListSync", v, err)
}

// DrawSync returns the drawing status in SyncPeek mode. In SyncWait mode the
// current thread waits until every list is complete.
func (m *Module) DrawSync(mode int) uint32 {
	v, err := func() (uint32, error) {
		switch mode {
		case SyncPeek:
			return uint32(m.engine.DrawStatus()), nil
		case SyncWait:
			if m.engine.DrawStatus() != ge.Done {
				m.block("ge draw sync", nil)
			}
			return 0, nil
		}
		return 0, kernelerr.ErrInvalidMode
	}()
	return m.result("DrawSync", v, err)
}

// Break pauses the current list. Returns the id of the paused list.
func (m *Module) Break(mode int) uint32 {
	v, err := func() (uint32, error) {
		if mode != 0 && mode != 1 {
			return 0, kernelerr.ErrInvalidMode
		}
		l, err := m.engine.Break()
		if err != nil {
			return 0, kernelerr.ErrAlready
		}
		return uint32(l.ID), nil
	}()
	return m.result("Break", v, err)
}

// Continue resumes a list paused by Break().
func (m *Module) Continue() uint32 {
	_, err := m.engine.Continue()
	if err != nil {
		err = kernelerr.ErrAlready
	}
	return m.result("Continue", 0, err)
}

// SetCallback reads a callback structure from guest memory and returns the
// callback id.
func (m *Module) SetCallback(addr uint32) uint32 {
	v, err := func() (uint32, error) {
		if !m.mem.IsAddressGood(addr) || !m.mem.IsAddressGood(addr+15) {
			return 0, kernelerr.ErrInvalidPointer
		}
		for id, cb := range m.callbacks {
			if cb == nil {
				m.callbacks[id] = &Callback{
					Signal:    m.mem.Read32(addr),
					SignalArg: m.mem.Read32(addr + 4),
					Finish:    m.mem.Read32(addr + 8),
					FinishArg: m.mem.Read32(addr + 12),
					GP:        m.cpu.Regs.GPR[allegrex.GP],
				}
				return uint32(id), nil
			}
		}
		return 0, kernelerr.ErrOutOfMemory
	}()
	return m.result("SetCallback", v, err)
}

// UnsetCallback removes a callback.
func (m *Module) UnsetCallback(id int) uint32 {
	var err error
	if id < 0 || id >= MaxCallbacks || m.callbacks[id] == nil {
		err = kernelerr.ErrInvalidID
	} else {
		m.callbacks[id] = nil
	}
	return m.result("UnsetCallback", 0, err)
}

// SaveContext writes the GE state to guest memory.
func (m *Module) SaveContext(addr uint32) uint32 {
	err := func() error {
		if m.engine.DrawStatus() != ge.Done {
			return kernelerr.ErrBusy
		}
		if err := m.engine.Core().SaveContext(addr); err != nil {
			return errors.Wrap(kernelerr.ErrInvalidPointer, err.Error())
		}
		return nil
	}()
	return m.result("SaveContext", 0, err)
}

// RestoreContext reads the GE state from guest memory.
func (m *Module) RestoreContext(addr uint32) uint32 {
	err := func() error {
		if m.engine.DrawStatus() != ge.Done {
			return kernelerr.ErrBusy
		}
		if err := m.engine.Core().RestoreContext(addr); err != nil {
			return errors.Wrap(kernelerr.ErrInvalidPointer, err.Error())
		}
		return nil
	}()
	return m.result("RestoreContext", 0, err)
}

// GetCmd returns the most recent value of a GE command.
func (m *Module) GetCmd(cmd int) uint32 {
	if cmd < 0 || cmd >= native.NumCommands {
		return m.result("GetCmd", 0, kernelerr.ErrInvalidID)
	}
	return m.engine.Core().Command(cmd)
}

// GetMtx writes a matrix to guest memory. The projection matrix is sixteen
// floats and every other matrix is twelve.
func (m *Module) GetMtx(id int, addr uint32) uint32 {
	err := func() error {
		if id < 0 || id >= native.NumMatrices {
			return kernelerr.ErrInvalidID
		}
		n := 12
		if id == native.MatrixProjection {
			n = 16
		}
		if !m.mem.IsAddressGood(addr) || !m.mem.IsAddressGood(addr+uint32(n*4)-1) {
			return kernelerr.ErrInvalidPointer
		}
		mtx := m.engine.Core().Matrix(id)
		for i := range n {
			m.mem.Write32(addr+uint32(i*4), math.Float32bits(mtx[i]))
		}
		return nil
	}()
	return m.result("GetMtx", 0, err)
}
