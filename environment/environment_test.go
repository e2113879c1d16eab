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

package environment_test

import (
	"testing"

	"github.com/gopherpsp/gopherpsp/environment"
	"github.com/gopherpsp/gopherpsp/hardware/preferences"
	"github.com/gopherpsp/gopherpsp/test"
)

func TestEnvironment(t *testing.T) {
	env, err := environment.NewEnvironment("regression", nil)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, env.Prefs != nil)
	test.ExpectFailure(t, env.IsMainEmulation())
	test.ExpectFailure(t, env.AllowLogging())
	test.ExpectSuccess(t, env.IsEmulation("regression"))

	p := preferences.NewDefaultPreferences()
	main, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, main.AllowLogging())

	test.ExpectSuccess(t, p.RenderThreads.Set(1))
	main.Normalise()
	test.ExpectEquality(t, p.RenderThreads.Get().(int), 4)
}
