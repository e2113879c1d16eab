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

package kernelerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errno is a guest-visible kernel error code.
type Errno uint32

// list of error numbers
const (
	// generic
	ErrAlready        Errno = 0x80000020
	ErrBusy           Errno = 0x80000021
	ErrOutOfMemory    Errno = 0x80000022
	ErrInvalidID      Errno = 0x80000100
	ErrInvalidPointer Errno = 0x80000103
	ErrInvalidMode    Errno = 0x80000107

	// kernel
	ErrKernel           Errno = 0x80020001
	ErrIllegalIntrCode  Errno = 0x80020065
	ErrFoundHandler     Errno = 0x80020067
	ErrNotFoundHandler  Errno = 0x80020068
	ErrIllegalPriority  Errno = 0x80020193
	ErrNotFoundThread   Errno = 0x80020198
	ErrThreadNotDormant Errno = 0x800201a4
)

var messages = map[Errno]string{
	ErrAlready:        "already",
	ErrBusy:           "busy",
	ErrOutOfMemory:    "out of memory",
	ErrInvalidID:      "invalid id",
	ErrInvalidPointer: "invalid pointer",
	ErrInvalidMode:    "invalid mode",

	ErrKernel:           "kernel error",
	ErrIllegalIntrCode:  "illegal interrupt code",
	ErrFoundHandler:     "handler already registered",
	ErrNotFoundHandler:  "handler not found",
	ErrIllegalPriority:  "illegal thread priority",
	ErrNotFoundThread:   "thread not found",
	ErrThreadNotDormant: "thread is not dormant",
}

func (e Errno) Error() string {
	if m, ok := messages[e]; ok {
		return fmt.Sprintf("%s (%08x)", m, uint32(e))
	}
	return fmt.Sprintf("kernel error (%08x)", uint32(e))
}

// Result converts a syscall return value and error into the value returned
// to the guest. A nil error returns v. An error that is not an Errno is
// reported as ErrKernel.
func Result(v uint32, err error) uint32 {
	if err == nil {
		return v
	}
	var e Errno
	if errors.As(err, &e) {
		return uint32(e)
	}
	return uint32(ErrKernel)
}

// Code returns the Errno of err, or ErrKernel if err is not an Errno. Returns
// zero if err is nil.
func Code(err error) Errno {
	return Errno(Result(0, err))
}

// Check is the inverse of Result. A value with the top bit set is returned
// as an Errno and any other value as a nil error.
func Check(v uint32) error {
	if v&0x80000000 == 0 {
		return nil
	}
	return Errno(v)
}
