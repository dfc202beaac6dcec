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

// SelectKeys matches entries with the specified key(s). If the list of keys
// is empty then all entries are matched, in key order.
//
// onSelect() should return true if the select process is to continue.
// Continue flag is ignored if error is not nil.
func (db *Session) SelectKeys(onSelect func(key int, ent Entry) (bool, error), keys ...int) error {
	keyList := keys
	if len(keys) == 0 {
		keyList = db.SortedKeyList()
	}

	for _, key := range keyList {
		ent, err := db.Get(key)
		if err != nil {
			return err
		}

		cont, err := onSelect(key, ent)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}

	return nil
}
