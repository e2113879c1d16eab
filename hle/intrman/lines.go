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

import "fmt"

// NumberInterrupts is the number of interrupt lines.
const NumberInterrupts = 67

// List of named interrupt lines.
const (
	GPIO      = 4
	ATA       = 5
	UMD       = 6
	MSCM0     = 7
	WLAN      = 8
	AUDIO     = 10
	I2C       = 12
	SIRCS     = 14
	SYSTIMER0 = 15
	SYSTIMER1 = 16
	SYSTIMER2 = 17
	SYSTIMER3 = 18
	THREAD0   = 19
	NAND      = 20
	DMACPLUS  = 21
	DMA0      = 22
	DMA1      = 23
	MEMLMD    = 24
	GE        = 25
	VBLANK    = 30
	MECODEC   = 31
	HPREMOTE  = 36
	MSCM1     = 60
	MSCM2     = 61
	THREAD1   = 65
	INTERRUPT = 66
)

var interruptNames = [NumberInterrupts]string{
	GPIO:      "GPIO",
	ATA:       "ATA_ATAPI",
	UMD:       "UmdMan",
	MSCM0:     "MScm0",
	WLAN:      "Wlan",
	AUDIO:     "Audio",
	I2C:       "I2C",
	SIRCS:     "SIRCS",
	SYSTIMER0: "SYSTIMER0",
	SYSTIMER1: "SYSTIMER1",
	SYSTIMER2: "SYSTIMER2",
	SYSTIMER3: "SYSTIMER3",
	THREAD0:   "Thread0",
	NAND:      "NAND",
	DMACPLUS:  "DMACPLUS",
	DMA0:      "DMA0",
	DMA1:      "DMA1",
	MEMLMD:    "Memlmd",
	GE:        "GE",
	VBLANK:    "VBLANK",
	MECODEC:   "MeCodec",
	HPREMOTE:  "HP_Remote",
	MSCM1:     "MScm1",
	MSCM2:     "MScm2",
	THREAD1:   "Thread1",
	INTERRUPT: "Interrupt",
}

// IsValidLine returns true if line is a valid interrupt line.
func IsValidLine(line int) bool {
	return line >= 0 && line < NumberInterrupts
}

// InterruptName returns the name of the interrupt line. Lines without a name
// are formatted as INTERRUPT_ followed by the line number in hex.
func InterruptName(line int) string {
	if IsValidLine(line) && interruptNames[line] != "" {
		return interruptNames[line]
	}
	return fmt.Sprintf("INTERRUPT_%X", line)
}
