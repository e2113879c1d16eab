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
	"fmt"
	"slices"
)

// Handler is an interrupt handler. The set of handler types is closed: a
// handler is one of HostHandler, GuestHandler, SubIntrHandler or
// VBlankHandler.
//
// Handlers are compared by identity. The same handler can be added to more
// than one line, or more than once to the same line.
type Handler interface {
	fmt.Stringer
	handler()
}

// HostHandler runs a host function when the interrupt is triggered.
type HostHandler struct {
	Name string
	Fn   func()
}

func (h *HostHandler) handler() {}

func (h *HostHandler) String() string {
	return fmt.Sprintf("host handler %s", h.Name)
}

// GuestHandler calls guest code when the interrupt is triggered. The GP
// register is loaded before the call and Args are copied to the argument
// registers a0 to a3.
type GuestHandler struct {
	Address uint32
	GP      uint32
	Args    []uint32
}

func (h *GuestHandler) handler() {}

func (h *GuestHandler) String() string {
	return fmt.Sprintf("guest handler %08x (gp %08x)", h.Address, h.GP)
}

// SubIntrHandler is a guest handler belonging to a numbered sub-interrupt of
// an interrupt line. Sub-interrupts can be enabled and disabled individually.
// Only enabled sub-interrupts run when the line is triggered.
//
// The guest code is called with the sub-interrupt number in a0 and Argument
// in a1.
type SubIntrHandler struct {
	Address  uint32
	GP       uint32
	Argument uint32
	Sub      int
	Enabled  bool
}

func (h *SubIntrHandler) handler() {}

func (h *SubIntrHandler) String() string {
	return fmt.Sprintf("sub-interrupt %d handler %08x (enabled %v)", h.Sub, h.Address, h.Enabled)
}

// VBlankAction is a host function run by the VBlankHandler.
type VBlankAction struct {
	fn func()
}

// VBlankHandler runs a list of host functions every vertical blank. Actions
// are either persistent, running until removed, or one-shot, running once.
type VBlankHandler struct {
	persistent []*VBlankAction
	once       []*VBlankAction
}

func (h *VBlankHandler) handler() {}

func (h *VBlankHandler) String() string {
	return fmt.Sprintf("vblank handler (%d persistent, %d once)", len(h.persistent), len(h.once))
}

// run the actions in the order they were added. one-shot actions are removed
// before they run so that an action can add itself again.
func (h *VBlankHandler) run() {
	for _, a := range slices.Clone(h.persistent) {
		if a.fn != nil {
			a.fn()
		}
	}
	once := h.once
	h.once = nil
	for _, a := range once {
		if a.fn != nil {
			a.fn()
		}
	}
}

// lineHandler runs every handler registered for a line. it is the handler
// used to defer a trigger of an entire line.
type lineHandler struct {
	line int
}

func (h *lineHandler) handler() {}

func (h *lineHandler) String() string {
	return fmt.Sprintf("trigger of %s", InterruptName(h.line))
}

// guestCall is a single call of guest code collected during the host pass.
type guestCall struct {
	address uint32
	gp      uint32
	args    []uint32
}

// execute the host side of a handler. guest handlers append a call to the
// list of guest calls. disabled sub-interrupt handlers are skipped unless
// force is true.
func (im *Manager) execute(h Handler, calls []guestCall, force bool) []guestCall {
	switch h := h.(type) {
	case nil:
	case *HostHandler:
		if h != nil && h.Fn != nil {
			h.Fn()
		}
	case *GuestHandler:
		if h != nil {
			calls = append(calls, guestCall{address: h.Address, gp: h.GP, args: h.Args})
		}
	case *SubIntrHandler:
		if h != nil && (h.Enabled || force) {
			calls = append(calls, guestCall{address: h.Address, gp: h.GP, args: []uint32{uint32(h.Sub), h.Argument}})
		}
	case *VBlankHandler:
		if h != nil {
			h.run()
		}
	case *lineHandler:
		for _, lh := range im.Handlers(h.line) {
			calls = im.execute(lh, calls, false)
		}
	}
	return calls
}
