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
	"strings"
)

// register numbers
const (
	ZR = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA

	NumGPR
)

var regNames = [NumGPR]string{
	"zr", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// RegisterName returns the conventional name of a general purpose register.
func RegisterName(r int) string {
	if r < 0 || r >= NumGPR {
		return fmt.Sprintf("r%d", r)
	}
	return regNames[r]
}

// Registers is the register context of the processor. The value is copied
// wholesale when an interrupt context is entered and left.
type Registers struct {
	GPR [NumGPR]uint32
	PC  uint32
	HI  uint32
	LO  uint32
}

func (r Registers) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("pc=%08x hi=%08x lo=%08x\n", r.PC, r.HI, r.LO))
	for i := range NumGPR {
		s.WriteString(fmt.Sprintf("%s=%08x", regNames[i], r.GPR[i]))
		if i%8 == 7 {
			s.WriteString("\n")
		} else {
			s.WriteString(" ")
		}
	}
	return s.String()
}
