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

//go:build assertions

package assert

import (
	"fmt"
	"sync/atomic"
)

var emulationGoroutine atomic.Uint64

// SetEmulationGoroutine records the calling goroutine as the goroutine that
// owns the emulated CPU and the interrupt manager.
func SetEmulationGoroutine() {
	emulationGoroutine.Store(GetGoRoutineID())
}

// OnEmulationGoroutine panics if it is called from a goroutine other than
// the one recorded by SetEmulationGoroutine(). It does nothing if no
// goroutine has been recorded.
func OnEmulationGoroutine(context string) {
	id := emulationGoroutine.Load()
	if id == 0 {
		return
	}
	if g := GetGoRoutineID(); g != id {
		panic(fmt.Sprintf("%s: called from goroutine %d, expected emulation goroutine %d", context, g, id))
	}
}
