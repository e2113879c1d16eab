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

package threadman

import (
	"fmt"
	"slices"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hle/kernelerr"
	"github.com/gopherpsp/gopherpsp/logger"
)

// Status of a thread.
type Status int

// List of valid Status values.
const (
	Dormant Status = iota
	Ready
	Running
	Waiting
)

func (s Status) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Waiting:
		return "waiting"
	}
	return "unknown"
}

// valid range of thread priorities
const (
	HighestPriority = 0x08
	LowestPriority  = 0x77
)

// Thread is a guest thread.
type Thread struct {
	ID       int
	Name     string
	Entry    uint32
	Priority int
	Status   Status

	// reason for the Waiting status
	WaitReason string
}

func (th *Thread) String() string {
	s := fmt.Sprintf("%d %s pri=%#02x %s", th.ID, th.Name, th.Priority, th.Status)
	if th.Status == Waiting && th.WaitReason != "" {
		s = fmt.Sprintf("%s (%s)", s, th.WaitReason)
	}
	return s
}

// Manager is the thread manager.
type Manager struct {
	env *environment.Environment

	threads []*Thread
	current *Thread
	nextID  int

	// number of times the current thread has changed
	Switches int
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager(env *environment.Environment) *Manager {
	tm := &Manager{env: env}
	tm.Reset()
	return tm
}

func (tm *Manager) String() string {
	if tm.current == nil {
		return "no current thread"
	}
	return fmt.Sprintf("current: %s", tm.current)
}

// Reset removes all threads.
func (tm *Manager) Reset() {
	tm.threads = tm.threads[:0]
	tm.current = nil
	tm.nextID = 1
	tm.Switches = 0
}

// Threads returns a copy of the thread list in order of creation.
func (tm *Manager) Threads() []*Thread {
	return slices.Clone(tm.threads)
}

// Thread returns the thread with the ID.
func (tm *Manager) Thread(id int) (*Thread, error) {
	for _, th := range tm.threads {
		if th.ID == id {
			return th, nil
		}
	}
	return nil, kernelerr.ErrNotFoundThread
}

// CreateThread adds a new dormant thread.
func (tm *Manager) CreateThread(name string, entry uint32, priority int) (*Thread, error) {
	if priority < HighestPriority || priority > LowestPriority {
		return nil, kernelerr.ErrIllegalPriority
	}
	th := &Thread{
		ID:       tm.nextID,
		Name:     name,
		Entry:    entry,
		Priority: priority,
		Status:   Dormant,
	}
	tm.nextID++
	tm.threads = append(tm.threads, th)
	return th, nil
}

// StartThread makes a dormant thread ready. The thread will become current
// at the next reschedule if it is the most important ready thread.
func (tm *Manager) StartThread(id int) error {
	th, err := tm.Thread(id)
	if err != nil {
		return err
	}
	if th.Status != Dormant {
		return kernelerr.ErrThreadNotDormant
	}
	th.Status = Ready
	if tm.current == nil {
		tm.RescheduleCurrentThread()
	}
	return nil
}

// CurrentThread returns the current thread. Returns nil if there is no
// runnable thread.
func (tm *Manager) CurrentThread() *Thread {
	return tm.current
}

// BlockCurrent puts the current thread into the Waiting state and switches to
// the next most important ready thread.
func (tm *Manager) BlockCurrent(reason string) *Thread {
	th := tm.current
	if th == nil {
		return nil
	}
	th.Status = Waiting
	th.WaitReason = reason
	tm.current = nil
	tm.RescheduleCurrentThread()
	return th
}

// Unblock makes a waiting thread ready. It does not become current until the
// next reschedule.
func (tm *Manager) Unblock(id int) error {
	th, err := tm.Thread(id)
	if err != nil {
		return err
	}
	if th.Status == Waiting {
		th.Status = Ready
		th.WaitReason = ""
	}
	return nil
}

// RescheduleCurrentThread makes the most important ready thread current if
// it is more important than the current thread. Threads of equal priority do
// not preempt one another.
func (tm *Manager) RescheduleCurrentThread() {
	var best *Thread
	for _, th := range tm.threads {
		if th.Status != Ready {
			continue
		}
		if best == nil || th.Priority < best.Priority {
			best = th
		}
	}

	if best == nil {
		return
	}

	if tm.current != nil && tm.current.Priority <= best.Priority {
		return
	}

	if tm.current != nil {
		tm.current.Status = Ready
	}
	best.Status = Running
	prev := tm.current
	tm.current = best
	tm.Switches++

	if prev != nil {
		logger.Logf(tm.env, "threadman", "switch %s -> %s", prev.Name, best.Name)
	}
}
