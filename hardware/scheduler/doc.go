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

// Package scheduler implements the virtual-time scheduler of the emulation.
//
// Time is measured in microseconds since the last Reset(). Actions are added
// for an absolute time with AddAction() and are run by Advance(), in time
// order. Actions due at the same time run in the order they were added.
//
// An action may add further actions, including actions for the current time,
// which will be run by the same call to Advance(). This is how periodic events
// such as the vertical blank re-arm themselves.
//
// The scheduler is safe to use from more than one goroutine. Actions are
// always run on the goroutine that calls Advance() and the scheduler lock is
// not held while an action runs.
package scheduler
