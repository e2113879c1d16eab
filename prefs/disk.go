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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand while gopherpsp is running ***"

// separator between key and value in the prefs file.
const fileSeparator = " :: "

// ErrNoPrefsFile is returned by Load() when the prefs file does not exist.
// Callers can usually ignore this error.
var ErrNoPrefsFile = errors.New("prefs: no prefs file")

// Disk represents the preference values that are stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, fileSeparator, dsk.entries[k].String()))
	}
	return s.String()
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, errors.New("prefs: no path for disk")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.ContainsAny(key, " \t\n") || strings.Contains(key, "::") || key == "" {
		return errors.Errorf("prefs: illegal key (%q)", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return errors.Errorf("prefs: key already added (%s)", key)
	}
	dsk.entries[key] = p
	return nil
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset all preference values to their zero value.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return errors.Wrapf(err, "prefs: reset %s", k)
		}
	}
	return nil
}

// read the prefs file into a map of string values. defunct keys are dropped.
func (dsk *Disk) read() (map[string]string, error) {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNoPrefsFile, dsk.path)
		}
		return nil, errors.Wrap(err, "prefs")
	}
	defer f.Close()

	values := make(map[string]string)

	scanner := bufio.NewScanner(f)

	// first line must be the boilerplate
	if !scanner.Scan() {
		return values, nil
	}
	if scanner.Text() != WarningBoilerPlate {
		return nil, errors.Errorf("prefs: not a valid prefs file (%s)", dsk.path)
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), fileSeparator)
		if !ok || isDefunct(k) {
			continue
		}
		values[k] = v
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "prefs")
	}

	return values, nil
}

// Save current preference values to disk. Entries in the file that do not
// belong to this Disk are preserved.
func (dsk *Disk) Save() error {
	values, err := dsk.read()
	if err != nil {
		if !errors.Is(err, ErrNoPrefsFile) {
			return err
		}
		values = make(map[string]string)
	}

	for k, p := range dsk.entries {
		values[k] = p.String()
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(dsk.path)
	if err != nil {
		return errors.Wrap(err, "prefs")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, WarningBoilerPlate)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s\n", k, fileSeparator, values[k])
	}

	return errors.Wrap(w.Flush(), "prefs")
}

// Load preference values from disk. Values on the top of the command line
// stack override the values in the file, even when the file does not exist.
//
// If the file does not exist the returned error satisfies errors.Is(err,
// ErrNoPrefsFile). If saveOnFirstUse is true the file is created from the
// current values in that case and no error is returned.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	values, err := dsk.read()
	missing := errors.Is(err, ErrNoPrefsFile)
	if err != nil && !missing {
		return err
	}

	for k, v := range values {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return errors.Wrapf(err, "prefs: %s", k)
			}
		}
	}

	for _, k := range dsk.keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if err := dsk.entries[k].Set(v); err != nil {
				return errors.Wrapf(err, "prefs: %s", k)
			}
		}
	}

	if missing {
		if saveOnFirstUse {
			return dsk.Save()
		}
		return err
	}

	return nil
}
