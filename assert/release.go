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

//go:build !assertions

package assert

// SetEmulationGoroutine is a stub. Build with the "assertions" tag to enable.
func SetEmulationGoroutine() {}

// OnEmulationGoroutine is a stub. Build with the "assertions" tag to enable.
func OnEmulationGoroutine(_ string) {}
