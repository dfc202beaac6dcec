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

package regression

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/scummvm/scummvm-sub071/database"
)

// Regressor represents the generic entry in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the newRegression
	// flag indicates that the entry is being created and that any digest
	// should be generated rather than compared
	//
	// the returned string describes the failure when the bool is false
	regress(newRegression bool) (bool, string, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	return db.RegisterEntryType(musicEntryType, deserialiseMusicEntry)
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer, dbPath string) error {
	if output == nil {
		return fmt.Errorf("regression: list: io.Writer should not be nil (use a nopWriter)")
	}

	db, err := database.StartSession(dbPath, database.ActivityReading, initDBSession)
	if err != nil {
		return fmt.Errorf("regression: list: %w", err)
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressAdd adds a new regression handler to the database.
func RegressAdd(output io.Writer, dbPath string, reg Regressor) error {
	if output == nil {
		return fmt.Errorf("regression: add: io.Writer should not be nil (use a nopWriter)")
	}

	ok, msg, err := reg.regress(true)
	if err != nil {
		return fmt.Errorf("regression: add: %w", err)
	}
	if !ok {
		return fmt.Errorf("regression: add: %s", msg)
	}

	db, err := database.StartSession(dbPath, database.ActivityCreating, initDBSession)
	if err != nil {
		return fmt.Errorf("regression: add: %w", err)
	}

	key, err := db.Add(reg)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: add: %w", err)
	}

	if err := db.EndSession(true); err != nil {
		return fmt.Errorf("regression: add: %w", err)
	}

	fmt.Fprintf(output, "added: %03d %s\n", key, reg)

	return nil
}

// RegressDelete removes an entry from the regression database. The user is
// asked for confirmation via the confirmation reader.
func RegressDelete(output io.Writer, confirmation io.Reader, dbPath string, key string) error {
	if output == nil {
		return fmt.Errorf("regression: delete: io.Writer should not be nil (use a nopWriter)")
	}

	v, err := strconv.Atoi(key)
	if err != nil {
		return fmt.Errorf("regression: delete: invalid key [%s]", key)
	}

	db, err := database.StartSession(dbPath, database.ActivityModifying, initDBSession)
	if err != nil {
		return fmt.Errorf("regression: delete: %w", err)
	}

	ent, err := db.Get(v)
	if err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: delete: %w", err)
	}

	fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

	confirm := make([]byte, 32)
	n, err := confirmation.Read(confirm)
	if err != nil && !errors.Is(err, io.EOF) {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: delete: %w", err)
	}

	if n == 0 || (confirm[0] != 'y' && confirm[0] != 'Y') {
		fmt.Fprintln(output)
		return db.EndSession(false)
	}

	if err := db.Delete(v); err != nil {
		_ = db.EndSession(false)
		return fmt.Errorf("regression: delete: %w", err)
	}

	if err := db.EndSession(true); err != nil {
		return fmt.Errorf("regression: delete: %w", err)
	}

	fmt.Fprintf(output, "\ndeleted test #%03d from regression database\n", v)

	return nil
}

// RegressRun runs the tests in the regression database. The filterKeys list
// specifies which entries to test. An empty list means that every entry
// should be tested.
//
// The number of failed tests (including those that returned an error) is
// returned.
func RegressRun(output io.Writer, dbPath string, verbose bool, failOnError bool, filterKeys []string) (int, error) {
	if output == nil {
		return 0, fmt.Errorf("regression: run: io.Writer should not be nil (use a nopWriter)")
	}

	db, err := database.StartSession(dbPath, database.ActivityReading, initDBSession)
	if err != nil {
		return 0, fmt.Errorf("regression: run: %w", err)
	}
	defer db.EndSession(false)

	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return 0, fmt.Errorf("regression: run: invalid key [%s]", k)
		}
		keys = append(keys, v)
	}

	var numSucceed int
	var numFail int
	var numError int

	onSelect := func(key int, ent database.Entry) (bool, error) {
		reg, ok := ent.(Regressor)
		if !ok {
			return false, fmt.Errorf("regression: run: database entry does not satisfy Regressor interface")
		}

		ok, msg, err := reg.regress(false)

		if err != nil {
			numError++
			fmt.Fprintf(output, "  ERROR: %03d %s\n", key, reg)
			if verbose {
				fmt.Fprintf(output, "  %v\n", err)
			}
			return !failOnError, nil
		}

		if !ok {
			numFail++
			fmt.Fprintf(output, "failure: %03d %s\n", key, reg)
			if verbose {
				fmt.Fprintf(output, "  %s\n", msg)
			}
			return true, nil
		}

		numSucceed++
		fmt.Fprintf(output, "succeed: %03d %s\n", key, reg)

		return true, nil
	}

	err = db.SelectKeys(onSelect, keys...)

	numSkipped := max(0, db.NumEntries()-numSucceed-numFail-numError)

	fmt.Fprintf(output, "regression tests: %d succeed, %d fail, %d skipped", numSucceed, numFail, numSkipped)
	if numError > 0 {
		fmt.Fprint(output, " [with errors]")
	}
	fmt.Fprintln(output)

	if err != nil {
		return numFail + numError, fmt.Errorf("regression: run: %w", err)
	}

	return numFail + numError, nil
}
