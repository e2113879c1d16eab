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

package performance

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/pkg/errors"
)

// Profile specifies which profiles are to be generated by RunProfiler().
type Profile int

// List of valid Profile values. Values can be combined.
const (
	ProfileNone  Profile = 0
	ProfileCPU   Profile = 1 << 0
	ProfileMem   Profile = 1 << 1
	ProfileTrace Profile = 1 << 2
)

// ParseProfile converts a comma separated list of profile names to a Profile
// value. Valid names are CPU, MEM and TRACE. The empty string and NONE are
// both ProfileNone.
func ParseProfile(s string) (Profile, error) {
	var p Profile
	for _, n := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(n)) {
		case "", "NONE":
		case "CPU":
			p |= ProfileCPU
		case "MEM":
			p |= ProfileMem
		case "TRACE":
			p |= ProfileTrace
		default:
			return ProfileNone, errors.Errorf("performance: unknown profile type (%s)", n)
		}
	}
	return p, nil
}

// RunProfiler runs the supplied function with the requested profiles. The
// profile files are named with the filenameHeader and the profile type. For
// example, performance_cpu.profile.
func RunProfiler(profile Profile, filenameHeader string, run func() error) error {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(filenameHeader + "_cpu.profile")
		if err != nil {
			return errors.Wrap(err, "performance")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "performance")
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(filenameHeader + "_trace.profile")
		if err != nil {
			return errors.Wrap(err, "performance")
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			return errors.Wrap(err, "performance")
		}
		defer trace.Stop()
	}

	if err := run(); err != nil {
		return err
	}

	if profile&ProfileMem == ProfileMem {
		f, err := os.Create(filenameHeader + "_mem.profile")
		if err != nil {
			return errors.Wrap(err, "performance")
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, "performance")
		}
	}

	return nil
}
