// This file is part of Townsplay.
//
// Townsplay is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Townsplay is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Townsplay.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// arbitrary maximum number of entries.
const maxEntries = 1000

const fieldSep = ","
const entrySep = "\n"

const (
	leaderFieldKey int = iota
	leaderFieldID
	numLeaderFields
)

// Activity is used to specify the type of activity that will be performed
// on the database during the session.
type Activity int

// List of valid Activity values.
const (
	ActivityReading Activity = iota
	ActivityModifying
	ActivityCreating
)

// ErrReadOnly is returned when an attempt is made to change the contents of
// a database opened with ActivityReading.
var ErrReadOnly = errors.New("database is open for reading only")

// Session keeps track of a database session.
type Session struct {
	dbfile   *os.File
	activity Activity

	entries map[int]Entry

	entryTypes map[string]deserialiser
}

// StartSession starts/initialises a new database session. The init function
// is called before the database file is read and should register the entry
// types that may be found.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		activity:   activity,
		entries:    make(map[int]Entry),
		entryTypes: make(map[string]deserialiser),
	}

	var flags int
	switch activity {
	case ActivityReading:
		flags = os.O_RDONLY
	case ActivityModifying:
		flags = os.O_RDWR
	case ActivityCreating:
		flags = os.O_RDWR | os.O_CREATE
	}

	var err error
	db.dbfile, err = os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// closing of db.dbfile requires a call to EndSession()

	if err := init(db); err != nil {
		_ = db.dbfile.Close()
		return nil, err
	}

	if err := db.readDBFile(); err != nil {
		_ = db.dbfile.Close()
		return nil, err
	}

	return db, nil
}

// EndSession closes the database. Changes are written to the file if
// commitChanges is true and the session is not a reading session.
func (db *Session) EndSession(commitChanges bool) error {
	if db.dbfile == nil {
		return nil
	}

	if commitChanges && db.activity != ActivityReading {
		if err := db.writeDBFile(); err != nil {
			_ = db.dbfile.Close()
			db.dbfile = nil
			return err
		}
	}

	err := db.dbfile.Close()
	db.dbfile = nil
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

func recordHeader(key int, id string) string {
	return fmt.Sprintf("%03d%s%s", key, fieldSep, id)
}

func (db *Session) writeDBFile() error {
	if err := db.dbfile.Truncate(0); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if _, err := db.dbfile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	for _, key := range db.SortedKeyList() {
		ent := db.entries[key]

		ser, err := ent.Serialise()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}

		s := strings.Builder{}
		s.WriteString(recordHeader(key, ent.EntryType()))
		for _, f := range ser {
			if strings.Contains(f, fieldSep) || strings.Contains(f, entrySep) {
				return fmt.Errorf("database: field contains a separator [%s]", f)
			}
			s.WriteString(fieldSep)
			s.WriteString(f)
		}
		s.WriteString(entrySep)

		if _, err := db.dbfile.WriteString(s.String()); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	return nil
}

func (db *Session) readDBFile() error {
	buffer, err := io.ReadAll(db.dbfile)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	lines := strings.Split(string(buffer), entrySep)

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(line, fieldSep)
		if len(fields) < numLeaderFields {
			return fmt.Errorf("database: too few fields at line %d", i+1)
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil {
			return fmt.Errorf("database: invalid key [%s] at line %d", fields[leaderFieldKey], i+1)
		}

		if _, ok := db.entries[key]; ok {
			return fmt.Errorf("database: duplicate key [%v] at line %d", key, i+1)
		}

		des, ok := db.entryTypes[fields[leaderFieldID]]
		if !ok {
			return fmt.Errorf("database: unrecognised entry type [%s] at line %d", fields[leaderFieldID], i+1)
		}

		ent, err := des(fields[numLeaderFields:])
		if err != nil {
			return fmt.Errorf("database: line %d: %w", i+1, err)
		}

		db.entries[key] = ent
	}

	return nil
}

// NumEntries returns the number of entries in the database.
func (db *Session) NumEntries() int {
	return len(db.entries)
}

// SortedKeyList returns a sorted list of database keys.
func (db *Session) SortedKeyList() []int {
	keyList := make([]int, 0, len(db.entries))
	for k := range db.entries {
		keyList = append(keyList, k)
	}
	sort.Ints(keyList)
	return keyList
}

// List the entries in key order.
func (db *Session) List(output io.Writer) error {
	if db.NumEntries() == 0 {
		_, err := io.WriteString(output, "database is empty\n")
		return err
	}

	for _, key := range db.SortedKeyList() {
		if _, err := fmt.Fprintf(output, "%03d %s\n", key, db.entries[key]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(output, "Total: %d\n", db.NumEntries())
	return err
}

// Add an entry to the database. The key of the new entry is returned.
func (db *Session) Add(ent Entry) (int, error) {
	if db.activity == ActivityReading {
		return 0, fmt.Errorf("database: %w", ErrReadOnly)
	}

	var key int

	// find spare key
	for key = 0; key < maxEntries; key++ {
		if _, ok := db.entries[key]; !ok {
			break
		}
	}

	if key == maxEntries {
		return 0, fmt.Errorf("database: maximum entries exceeded (max %d)", maxEntries)
	}

	db.entries[key] = ent

	return key, nil
}

// Get returns the entry with the specified key.
func (db *Session) Get(key int) (Entry, error) {
	ent, ok := db.entries[key]
	if !ok {
		return nil, fmt.Errorf("database: key not available (%d)", key)
	}
	return ent, nil
}

// Delete deletes the entry with the specified key.
func (db *Session) Delete(key int) error {
	if db.activity == ActivityReading {
		return fmt.Errorf("database: %w", ErrReadOnly)
	}
	if _, ok := db.entries[key]; !ok {
		return fmt.Errorf("database: key not available (%d)", key)
	}
	delete(db.entries, key)
	return nil
}
