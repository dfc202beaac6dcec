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

import "fmt"

// Entry represents the generic entry in the database.
type Entry interface {
	// EntryType returns the string that is used to identify the entry type
	// in the database
	EntryType() string

	// String should return information about the entry in a human readable
	// format. by contrast, machine readable representation is returned by the
	// Serialise function
	String() string

	// return the Entry data as a list of fields
	Serialise() ([]string, error)
}

// deserialiser creates an Entry from the fields stored in the database
type deserialiser func(fields []string) (Entry, error)

// RegisterEntryType tells the database what entries it may expect in the
// database and what to do when it encounters one.
func (db *Session) RegisterEntryType(id string, des deserialiser) error {
	if _, ok := db.entryTypes[id]; ok {
		return fmt.Errorf("database: trying to register a duplicate entry ID [%s]", id)
	}
	db.entryTypes[id] = des
	return nil
}
