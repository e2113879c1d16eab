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

package allegrex

import (
	"fmt"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/logger"
)

// ReturnAddress is loaded into the RA register by Call(). A guest routine
// returning to this address has returned to the host.
const ReturnAddress uint32 = 0x08000000

// Routine stands in for guest code installed at a guest address. The return
// function must be called exactly once, when the guest code returns.
type Routine func(cpu *Processor, ret func())

// Processor is the emulated Allegrex CPU.
type Processor struct {
	env *environment.Environment

	Regs Registers

	interruptsEnabled bool
	onEnable          func()

	routines map[uint32]Routine

	// number of guest calls that have not yet returned
	depth int
}

// NewProcessor is the preferred method of initialisation for the Processor type.
func NewProcessor(env *environment.Environment) *Processor {
	cpu := &Processor{
		env:      env,
		routines: make(map[uint32]Routine),
	}
	cpu.Reset()
	return cpu
}

func (cpu *Processor) String() string {
	return fmt.Sprintf("pc=%08x intr=%v depth=%d", cpu.Regs.PC, cpu.interruptsEnabled, cpu.depth)
}

// Reset clears the registers and enables interrupts. Installed routines are
// not removed.
func (cpu *Processor) Reset() {
	cpu.Regs = Registers{}
	cpu.interruptsEnabled = true
	cpu.depth = 0
}

// Snapshot returns a copy of the register context.
func (cpu *Processor) Snapshot() Registers {
	return cpu.Regs
}

// Restore replaces the register context.
func (cpu *Processor) Restore(r Registers) {
	cpu.Regs = r
}

// SetArgs copies up to four values into the argument registers a0 to a3.
// Registers without a value are not changed.
func (cpu *Processor) SetArgs(args ...uint32) {
	for i, a := range args {
		if i > A3-A0 {
			break
		}
		cpu.Regs.GPR[A0+i] = a
	}
}

// Arg returns the value of argument register n, where zero is a0.
func (cpu *Processor) Arg(n int) uint32 {
	if n < 0 || n > A3-A0 {
		return 0
	}
	return cpu.Regs.GPR[A0+n]
}

// SetRegister sets general purpose register r. Writes to the zero register
// are ignored.
func (cpu *Processor) SetRegister(r int, v uint32) {
	if r <= ZR || r >= NumGPR {
		return
	}
	cpu.Regs.GPR[r] = v
}

// SetReturnValue sets the v0 register.
func (cpu *Processor) SetReturnValue(v uint32) {
	cpu.Regs.GPR[V0] = v
}

// InterruptsEnabled returns the state of the global interrupt enable flag.
func (cpu *Processor) InterruptsEnabled() bool {
	return cpu.interruptsEnabled
}

// SetInterruptsEnabledListener sets the function called when interrupts
// change from disabled to enabled.
func (cpu *Processor) SetInterruptsEnabledListener(f func()) {
	cpu.onEnable = f
}

// EnableInterrupts sets the global interrupt enable flag. Returns the
// previous state of the flag.
func (cpu *Processor) EnableInterrupts() bool {
	return cpu.SetInterrupts(true)
}

// DisableInterrupts clears the global interrupt enable flag. Returns the
// previous state of the flag.
func (cpu *Processor) DisableInterrupts() bool {
	return cpu.SetInterrupts(false)
}

// SetInterrupts sets the global interrupt flag to the state given. Returns the
// previous state of the flag.
func (cpu *Processor) SetInterrupts(enabled bool) bool {
	prev := cpu.interruptsEnabled
	cpu.interruptsEnabled = enabled
	if enabled && !prev && cpu.onEnable != nil {
		cpu.onEnable()
	}
	return prev
}

// Install a routine at a guest address. An existing routine at the same
// address is replaced.
func (cpu *Processor) Install(addr uint32, r Routine) {
	cpu.routines[addr] = r
}

// Uninstall the routine at a guest address.
func (cpu *Processor) Uninstall(addr uint32) {
	delete(cpu.routines, addr)
}

// IsInstalled returns true if a routine is installed at the address.
func (cpu *Processor) IsInstalled(addr uint32) bool {
	_, ok := cpu.routines[addr]
	return ok
}

// CallDepth returns the number of guest calls that have not returned.
func (cpu *Processor) CallDepth() int {
	return cpu.depth
}

// Call the guest code at addr. The returned function is called when the guest
// code returns, which may be before Call() itself returns.
//
// Calling an address with no routine installed is logged and returns
// immediately.
func (cpu *Processor) Call(addr uint32, returned func()) {
	cpu.Regs.PC = addr
	cpu.Regs.GPR[RA] = ReturnAddress
	cpu.depth++

	var done bool
	ret := func() {
		if done {
			logger.Logf(cpu.env, "allegrex", "routine at %08x returned more than once", addr)
			return
		}
		done = true
		cpu.depth--
		cpu.Regs.PC = ReturnAddress
		if returned != nil {
			returned()
		}
	}

	r, ok := cpu.routines[addr]
	if !ok {
		logger.Logf(cpu.env, "allegrex", "call to %08x: no guest code", addr)
		ret()
		return
	}

	r(cpu, ret)
}
