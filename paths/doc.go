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

// Package paths contains functions to prepare paths for GopherPSP resources.
//
// The ResourcePath() function returns the path to a resource file or
// directory, creating the parent directories if necessary. For development
// builds the base directory is ".gopherpsp" in the current working directory.
// Builds with the "release" tag use the user's configuration directory, as
// returned by os.UserConfigDir().
package paths
