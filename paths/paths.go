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

package paths

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// ResourcePath returns the path of the resource file in the sub-directory
// subPth of the resource directory. The sub-directory is created if it does
// not exist. Both arguments can be empty.
func ResourcePath(subPth string, file string) (string, error) {
	basePth, err := getBasePath(subPth)
	if err != nil {
		return "", errors.Wrap(err, "paths")
	}
	if file == "" {
		return basePth, nil
	}
	return filepath.Join(basePth, file), nil
}
