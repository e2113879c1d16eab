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

// Package notifications allow communication from the emulated hardware to
// the HLE layer without the hardware package importing it. The GE engine
// uses notifications to report FINISH and SIGNAL commands so that the
// sceGe_user module can raise the guest callbacks.
//
// Notifications are sent from the GE goroutine. Implementations of Notify must
// not assume they are running on the emulation goroutine.
package notifications

// Notice describes events raised by the emulated hardware.
type Notice string

// List of defined notifications.
const (
	// a draw list has reached a FINISH/END pair. arguments: the list id, the
	// callback id, the argument of the FINISH command
	NotifyGeFinish Notice = "NotifyGeFinish"

	// a draw list has reached a SIGNAL/END pair. arguments as for
	// NotifyGeFinish, with the argument of the SIGNAL command
	NotifyGeSignal Notice = "NotifyGeSignal"

	// a draw list has completed and left the draw list queue. arguments: the
	// list id
	NotifyGeListDone Notice = "NotifyGeListDone"

	// the renderer has completed a frame. no arguments
	NotifyFrameRendered Notice = "NotifyFrameRendered"
)

// Notify is implemented by types that want to receive notices.
type Notify interface {
	Notify(notice Notice, args ...int) error
}
