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

// Package intrman is the interrupt manager of the HLE kernel. It delivers
// hardware interrupts to the host and guest handlers registered on each of
// the interrupt lines of the PSP.
//
// A trigger of an interrupt line runs in two passes. Host handlers, and the
// VBlank handler, run immediately in order of registration. Guest handlers
// encountered during that pass are collected and, once the pass is complete,
// run one at a time in order of registration. The register context of the
// CPU is saved before the first guest handler is called and restored after
// the last one returns.
//
// Interrupts raised by the scheduler with Request() are deferred if they
// cannot be delivered immediately, either because the CPU has interrupts
// disabled or because an interrupt is already being delivered. Deferred
// interrupts are delivered in order once delivery is possible again.
//
// The Manager is owned by the emulation goroutine. It is not safe to call
// any of its functions from another goroutine. Work from other goroutines,
// the GE for example, must be passed through the scheduler.
package intrman
