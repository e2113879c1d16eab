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

package interruptman

import (
	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/allegrex"
	"github.com/gopherpsp/gopherpsp/hle/intrman"
	"github.com/gopherpsp/gopherpsp/hle/kernelerr"
	"github.com/gopherpsp/gopherpsp/logger"
)

// NumberSubInterrupts is the number of sub-interrupts of each interrupt line.
const NumberSubInterrupts = 64

// Module is the InterruptManager module.
type Module struct {
	env *environment.Environment
	im  *intrman.Manager
	cpu *allegrex.Processor
}

// NewModule is the preferred method of initialisation for the Module type.
func NewModule(env *environment.Environment, im *intrman.Manager, cpu *allegrex.Processor) *Module {
	return &Module{
		env: env,
		im:  im,
		cpu: cpu,
	}
}

func (m *Module) result(syscall string, v uint32, err error) uint32 {
	if err != nil {
		logger.Logf(m.env, "interruptman", "%s: %v", syscall, err)
	}
	return kernelerr.Result(v, err)
}

func checkLine(line int) error {
	if !intrman.IsValidLine(line) {
		return kernelerr.ErrIllegalIntrCode
	}
	return nil
}

func checkSub(line int, sub int) error {
	if !intrman.IsValidLine(line) || sub < 0 || sub >= NumberSubInterrupts {
		return kernelerr.ErrIllegalIntrCode
	}
	return nil
}

// guestHandlers returns the guest handlers of a line
func (m *Module) guestHandlers(line int) []*intrman.GuestHandler {
	var hs []*intrman.GuestHandler
	for _, h := range m.im.Handlers(line) {
		if g, ok := h.(*intrman.GuestHandler); ok {
			hs = append(hs, g)
		}
	}
	return hs
}

// RegisterIntrHandler adds guest code at addr as a handler of an interrupt
// line. The handler is called with arg in a0 and the current GP register.
func (m *Module) RegisterIntrHandler(line int, addr uint32, arg uint32) uint32 {
	err := func() error {
		if err := checkLine(line); err != nil {
			return err
		}
		for _, g := range m.guestHandlers(line) {
			if g.Address == addr {
				return kernelerr.ErrFoundHandler
			}
		}
		m.im.AddHandler(line, &intrman.GuestHandler{
			Address: addr,
			GP:      m.cpu.Regs.GPR[allegrex.GP],
			Args:    []uint32{arg},
		})
		return nil
	}()
	return m.result("RegisterIntrHandler", 0, err)
}

// ReleaseIntrHandler removes every guest handler of an interrupt line that
// was added by RegisterIntrHandler().
func (m *Module) ReleaseIntrHandler(line int) uint32 {
	err := func() error {
		if err := checkLine(line); err != nil {
			return err
		}
		hs := m.guestHandlers(line)
		if len(hs) == 0 {
			return kernelerr.ErrNotFoundHandler
		}
		for _, g := range hs {
			m.im.RemoveHandler(line, g)
		}
		return nil
	}()
	return m.result("ReleaseIntrHandler", 0, err)
}

// RegisterSubIntrHandler adds guest code at addr as the handler of a
// sub-interrupt. The handler is disabled until EnableSubIntr() is called.
func (m *Module) RegisterSubIntrHandler(line int, sub int, addr uint32, arg uint32) uint32 {
	err := func() error {
		if err := checkSub(line, sub); err != nil {
			return err
		}
		if m.im.SubIntrHandler(line, sub) != nil {
			return kernelerr.ErrFoundHandler
		}
		m.im.AddHandler(line, &intrman.SubIntrHandler{
			Address:  addr,
			GP:       m.cpu.Regs.GPR[allegrex.GP],
			Argument: arg,
			Sub:      sub,
		})
		return nil
	}()
	return m.result("RegisterSubIntrHandler", 0, err)
}

// ReleaseSubIntrHandler removes the handler of a sub-interrupt.
func (m *Module) ReleaseSubIntrHandler(line int, sub int) uint32 {
	err := func() error {
		if err := checkSub(line, sub); err != nil {
			return err
		}
		h := m.im.SubIntrHandler(line, sub)
		if h == nil {
			return kernelerr.ErrNotFoundHandler
		}
		m.im.RemoveHandler(line, h)
		return nil
	}()
	return m.result("ReleaseSubIntrHandler", 0, err)
}

func (m *Module) setSubIntr(syscall string, line int, sub int, enabled bool) uint32 {
	err := func() error {
		if err := checkSub(line, sub); err != nil {
			return err
		}
		h := m.im.SubIntrHandler(line, sub)
		if h == nil {
			return kernelerr.ErrNotFoundHandler
		}
		h.Enabled = enabled
		return nil
	}()
	return m.result(syscall, 0, err)
}

// EnableSubIntr enables the handler of a sub-interrupt.
func (m *Module) EnableSubIntr(line int, sub int) uint32 {
	return m.setSubIntr("EnableSubIntr", line, sub, true)
}

// DisableSubIntr disables the handler of a sub-interrupt.
func (m *Module) DisableSubIntr(line int, sub int) uint32 {
	return m.setSubIntr("DisableSubIntr", line, sub, false)
}

// CallSubIntrHandler calls the handler of a sub-interrupt immediately,
// whether or not it is enabled.
func (m *Module) CallSubIntrHandler(line int, sub int) uint32 {
	err := func() error {
		if err := checkSub(line, sub); err != nil {
			return err
		}
		h := m.im.SubIntrHandler(line, sub)
		if h == nil {
			return kernelerr.ErrNotFoundHandler
		}
		m.im.TriggerSingle(line, h, nil, nil)
		return nil
	}()
	return m.result("CallSubIntrHandler", 0, err)
}

// CpuSuspendIntr disables interrupts. Returns a flag for use with
// CpuResumeIntr(), which is 1 if interrupts were enabled.
func (m *Module) CpuSuspendIntr() uint32 {
	if m.cpu.DisableInterrupts() {
		return 1
	}
	return 0
}

// CpuResumeIntr restores the interrupt flag returned by CpuSuspendIntr().
// Deferred interrupts are delivered if interrupts become enabled.
func (m *Module) CpuResumeIntr(flag uint32) uint32 {
	m.cpu.SetInterrupts(flag != 0)
	return 0
}

// IsCpuIntrEnable returns 1 if interrupts are enabled.
func (m *Module) IsCpuIntrEnable() uint32 {
	if m.cpu.InterruptsEnabled() {
		return 1
	}
	return 0
}

// IsIntrContext returns 1 if called from an interrupt handler.
func (m *Module) IsIntrContext() uint32 {
	if m.im.IsInsideInterrupt() {
		return 1
	}
	return 0
}
