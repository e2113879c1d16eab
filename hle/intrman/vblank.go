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

import (
	"slices"

	"github.com/gopherpsp/gopherpsp/hardware/clocks"
)

// Start the vertical blank. The VBlankHandler is added as the first handler
// of the VBLANK line and the first vertical blank is scheduled for one
// period from now. Calling Start() when the vertical blank is already running
// does nothing.
func (im *Manager) Start() {
	if im.vblankEntry != nil {
		return
	}
	if !slices.Contains(im.lines[VBLANK], Handler(im.vblank)) {
		im.lines[VBLANK] = slices.Insert(im.lines[VBLANK], 0, Handler(im.vblank))
	}
	im.vblankEntry = im.sched.AddAction(im.sched.Now()+clocks.VBlankPeriod, im.vblankTick)
}

// Stop the vertical blank. Handlers and vblank actions are not removed.
func (im *Manager) Stop() {
	if im.vblankEntry != nil {
		im.vblankEntry.Cancel()
		im.vblankEntry = nil
	}
}

// vblankTick re-arms itself before requesting the interrupt so that the
// period does not drift if the interrupt is deferred.
func (im *Manager) vblankTick() {
	im.vblankEntry = im.sched.AddAction(im.sched.Now()+clocks.VBlankPeriod, im.vblankTick)
	im.stats.VBlanks++
	im.Request(VBLANK)
}

// AddVBlankAction adds a function to be run every vertical blank.
func (im *Manager) AddVBlankAction(fn func()) *VBlankAction {
	a := &VBlankAction{fn: fn}
	im.vblank.persistent = append(im.vblank.persistent, a)
	return a
}

// AddVBlankActionOnce adds a function to be run at the next vertical blank
// only.
func (im *Manager) AddVBlankActionOnce(fn func()) *VBlankAction {
	a := &VBlankAction{fn: fn}
	im.vblank.once = append(im.vblank.once, a)
	return a
}

// RemoveVBlankAction removes an action added by AddVBlankAction() or
// AddVBlankActionOnce(). Returns false if the action is not present.
func (im *Manager) RemoveVBlankAction(a *VBlankAction) bool {
	if i := slices.Index(im.vblank.persistent, a); i >= 0 {
		im.vblank.persistent = slices.Delete(im.vblank.persistent, i, i+1)
		return true
	}
	if i := slices.Index(im.vblank.once, a); i >= 0 {
		im.vblank.once = slices.Delete(im.vblank.once, i, i+1)
		return true
	}
	return false
}
