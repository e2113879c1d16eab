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

package memory

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/logger"
)

// Memory is the main RAM of the PSP. The GE goroutine reads draw lists while
// the emulation goroutine writes them, so access is guarded.
type Memory struct {
	env *environment.Environment

	crit sync.RWMutex
	ram  []byte
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory(env *environment.Environment) *Memory {
	return &Memory{
		env: env,
		ram: make([]byte, SizeRAM),
	}
}

func (mem *Memory) String() string {
	return fmt.Sprintf("RAM %08x-%08x", OriginRAM, MemtopRAM)
}

// Reset clears main RAM.
func (mem *Memory) Reset() {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	clear(mem.ram)
}

// offset returns the index into ram for an access of size bytes at addr.
func (mem *Memory) offset(addr uint32, size uint32) (uint32, bool) {
	pa := Mask(addr)
	if pa < OriginRAM || pa+size-1 > MemtopRAM || pa+size-1 < pa {
		if mem.env.Prefs.LogBadAccess.Get().(bool) {
			logger.Logf(mem.env, "memory", "bad access of %d bytes at %08x", size, addr)
		}
		return 0, false
	}
	return pa - OriginRAM, true
}

// IsAddressGood returns true if addr is in main RAM.
func (mem *Memory) IsAddressGood(addr uint32) bool {
	pa := Mask(addr)
	return pa >= OriginRAM && pa <= MemtopRAM
}

// Read8 implements the Bus interface.
func (mem *Memory) Read8(addr uint32) uint8 {
	mem.crit.RLock()
	defer mem.crit.RUnlock()
	if o, ok := mem.offset(addr, 1); ok {
		return mem.ram[o]
	}
	return 0
}

// Read16 implements the Bus interface.
func (mem *Memory) Read16(addr uint32) uint16 {
	mem.crit.RLock()
	defer mem.crit.RUnlock()
	if o, ok := mem.offset(addr, 2); ok {
		return binary.LittleEndian.Uint16(mem.ram[o:])
	}
	return 0
}

// Read32 implements the Bus interface.
func (mem *Memory) Read32(addr uint32) uint32 {
	mem.crit.RLock()
	defer mem.crit.RUnlock()
	if o, ok := mem.offset(addr, 4); ok {
		return binary.LittleEndian.Uint32(mem.ram[o:])
	}
	return 0
}

// Write8 implements the Bus interface.
func (mem *Memory) Write8(addr uint32, v uint8) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	if o, ok := mem.offset(addr, 1); ok {
		mem.ram[o] = v
	}
}

// Write16 implements the Bus interface.
func (mem *Memory) Write16(addr uint32, v uint16) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	if o, ok := mem.offset(addr, 2); ok {
		binary.LittleEndian.PutUint16(mem.ram[o:], v)
	}
}

// Write32 implements the Bus interface.
func (mem *Memory) Write32(addr uint32, v uint32) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	if o, ok := mem.offset(addr, 4); ok {
		binary.LittleEndian.PutUint32(mem.ram[o:], v)
	}
}

// ReadBytes returns a copy of n bytes starting at addr. Returns nil if any
// part of the range is outside of main RAM.
func (mem *Memory) ReadBytes(addr uint32, n int) []byte {
	if n <= 0 {
		return nil
	}
	mem.crit.RLock()
	defer mem.crit.RUnlock()
	o, ok := mem.offset(addr, uint32(n))
	if !ok {
		return nil
	}
	b := make([]byte, n)
	copy(b, mem.ram[o:])
	return b
}

// WriteBytes copies p to memory at addr. Returns false and writes nothing if
// any part of the range is outside of main RAM.
func (mem *Memory) WriteBytes(addr uint32, p []byte) bool {
	if len(p) == 0 {
		return true
	}
	mem.crit.Lock()
	defer mem.crit.Unlock()
	o, ok := mem.offset(addr, uint32(len(p)))
	if !ok {
		return false
	}
	copy(mem.ram[o:], p)
	return true
}

// Memset fills n bytes at addr with v.
func (mem *Memory) Memset(addr uint32, v uint8, n int) bool {
	if n <= 0 {
		return true
	}
	mem.crit.Lock()
	defer mem.crit.Unlock()
	o, ok := mem.offset(addr, uint32(n))
	if !ok {
		return false
	}
	b := mem.ram[o : o+uint32(n)]
	for i := range b {
		b[i] = v
	}
	return true
}

// Memcpy copies n bytes from src to dst. Overlapping ranges are handled
// correctly.
func (mem *Memory) Memcpy(dst uint32, src uint32, n int) bool {
	if n <= 0 {
		return true
	}
	mem.crit.Lock()
	defer mem.crit.Unlock()
	d, ok := mem.offset(dst, uint32(n))
	if !ok {
		return false
	}
	s, ok := mem.offset(src, uint32(n))
	if !ok {
		return false
	}
	copy(mem.ram[d:d+uint32(n)], mem.ram[s:s+uint32(n)])
	return true
}

// HexDump writes n bytes starting at addr to w. Sixteen bytes per line, each
// line prefixed by the address and suffixed with the printable characters.
func (mem *Memory) HexDump(w io.Writer, addr uint32, n int) error {
	b := mem.ReadBytes(addr, n)
	if b == nil {
		return fmt.Errorf("memory: cannot dump %d bytes at %08x", n, addr)
	}

	for l := 0; l < len(b); l += 16 {
		line := b[l:min(l+16, len(b))]

		s := strings.Builder{}
		s.WriteString(fmt.Sprintf("%08x ", addr+uint32(l)))
		for i := 0; i < 16; i++ {
			if i == 8 {
				s.WriteString(" ")
			}
			if i < len(line) {
				s.WriteString(fmt.Sprintf(" %02x", line[i]))
			} else {
				s.WriteString("   ")
			}
		}
		s.WriteString("  |")
		for _, c := range line {
			if c >= 0x20 && c < 0x7f {
				s.WriteByte(c)
			} else {
				s.WriteByte('.')
			}
		}
		s.WriteString("|\n")

		if _, err := io.WriteString(w, s.String()); err != nil {
			return err
		}
	}

	return nil
}
