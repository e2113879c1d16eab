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

// Package preferences contains the preference values that affect the
// emulated PSP hardware and the HLE layer.
package preferences

import (
	"github.com/gopherpsp/gopherpsp/paths"
	"github.com/gopherpsp/gopherpsp/prefs"
	"github.com/pkg/errors"
)

// MaxRenderThreads is the largest number of renderer threads. A value of zero
// means rendering takes place on the GE goroutine.
const MaxRenderThreads = 8

// Preferences defines and collates all the preference values used by the
// emulation.
type Preferences struct {
	dsk *prefs.Disk

	// number of renderer threads
	RenderThreads prefs.Int

	// renderer line masks that do not tile the screen exactly are a startup
	// error when StrictMasks is true. otherwise the problem is logged and
	// rendering continues
	StrictMasks prefs.Bool

	// log every interrupt that is deferred
	LogDeferred prefs.Bool

	// log memory accesses outside of mapped memory
	LogBadAccess prefs.Bool
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

func newPreferences() *Preferences {
	p := &Preferences{}
	p.RenderThreads.SetHookPre(func(v prefs.Value) error {
		n := v.(int)
		if n < 0 || n > MaxRenderThreads {
			return errors.Errorf("preferences: render threads must be between 0 and %d (%d)", MaxRenderThreads, n)
		}
		return nil
	})
	p.SetDefaults()
	return p
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. Values are loaded from the prefs file in the resource directory.
func NewPreferences() (*Preferences, error) {
	p := newPreferences()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("ge.renderthreads", &p.RenderThreads)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("ge.strictmasks", &p.StrictMasks)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("intrman.logdeferred", &p.LogDeferred)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("memory.logbad", &p.LogBadAccess)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// NewDefaultPreferences creates a Preferences instance that is not backed by
// a file. Useful for tests and secondary emulations.
func NewDefaultPreferences() *Preferences {
	return newPreferences()
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() {
	_ = p.RenderThreads.Set(4)
	_ = p.StrictMasks.Set(true)
	_ = p.LogDeferred.Set(false)
	_ = p.LogBadAccess.Set(true)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	if p.dsk == nil {
		return errors.New("preferences: no prefs file for default preferences")
	}
	return p.dsk.Load(false)
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return errors.New("preferences: no prefs file for default preferences")
	}
	return p.dsk.Save()
}
