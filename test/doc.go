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

// Package test contains helper functions to remove common boilerplate from
// the package tests.
//
// The Expect functions report a test error and allow the test to continue.
// The Demand functions are the fatal equivalents and should be used when the
// value being tested is needed by later parts of the test. For example, when
// the length of a slice must be correct before it is indexed.
//
// Success and failure are judged by the type of the value. A bool is
// successful if it is true. An error is successful if it is nil. The untyped
// nil is always a success because that is how a nil error reaches the helper
// functions.
//
// The optional tags argument of every helper is printed at the head of the
// failure message. Useful when the helper is called from inside a loop.
//
// CompareWriter implements io.Writer and is used to capture output for later
// comparison.
package test
