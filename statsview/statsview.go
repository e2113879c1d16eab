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

package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/errors"
)

// Address is the default address of the stats server.
const Address = "localhost:12600"

const url = "/debug/statsview"

var launched sync.Once

// Launch a new goroutine running the statsview. The server can only be
// launched once.
func Launch(addr string, output io.Writer) error {
	if addr == "" {
		addr = Address
	}

	err := errors.New("statsview: already launched")
	launched.Do(func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		go mgr.Start()
		fmt.Fprintf(output, "stats server available at %s%s\n", addr, url)
		err = nil
	})
	return err
}
