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

package preferences_test

import (
	"testing"

	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/prefs"
	"github.com/gopherpsp/gopherpsp/test"
)

func TestDefaults(t *testing.T) {
	p := preferences.NewDefaultPreferences()
	test.ExpectEquality(t, p.RenderThreads.Get().(int), 4)
	test.ExpectEquality(t, p.StrictMasks.Get().(bool), true)
	test.ExpectEquality(t, p.LogDeferred.Get().(bool), false)

	test.ExpectFailure(t, p.RenderThreads.Set(9))
	test.ExpectFailure(t, p.RenderThreads.Set(-1))
	test.ExpectSuccess(t, p.RenderThreads.Set(0))
	test.ExpectEquality(t, p.RenderThreads.Get().(int), 0)

	p.SetDefaults()
	test.ExpectEquality(t, p.RenderThreads.Get().(int), 4)

	test.ExpectFailure(t, p.Save())
}

func TestDisk(t *testing.T) {
	t.Chdir(t.TempDir())

	prefs.PushCommandLineStack("ge.renderthreads::2")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.RenderThreads.Get().(int), 2)

	test.ExpectSuccess(t, p.StrictMasks.Set(false))
	test.ExpectSuccess(t, p.Save())

	q, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.StrictMasks.Get().(bool), false)
	test.ExpectEquality(t, q.RenderThreads.Get().(int), 2)
}
