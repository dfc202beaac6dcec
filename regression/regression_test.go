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

package regression_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scummvm/scummvm-sub071/regression"
	"github.com/scummvm/scummvm-sub071/test"
)

// FM-TOWNS music resource. every track plays a short note and ends
var music = []byte{
	0x0c, 0x00, 0x0c, 0x00, 0x0c, 0x00, 0x0c, 0x00, 0x0c, 0x00, 0x0c, 0x00,
	0x40, 0x08,
	0xff, 0x00, 0x00,
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	fn := filepath.Join(dir, "music.dat")
	test.DemandSuccess(t, os.WriteFile(fn, music, 0o644))
	return fn, filepath.Join(dir, "regressionDB")
}

func TestNewMusicRegression(t *testing.T) {
	_, err := regression.NewMusicRegression("music.dat", "98", 44100, time.Second, "")
	test.ExpectFailure(t, err)
	_, err = regression.NewMusicRegression("music.dat", "towns", 0, time.Second, "")
	test.ExpectFailure(t, err)
	_, err = regression.NewMusicRegression("music.dat", "towns", 44100, 0, "")
	test.ExpectFailure(t, err)
	_, err = regression.NewMusicRegression("music,dat", "towns", 44100, time.Second, "")
	test.ExpectFailure(t, err)
	_, err = regression.NewMusicRegression("music.dat", "towns", 44100, time.Second, "a,b")
	test.ExpectFailure(t, err)

	reg, err := regression.NewMusicRegression("music.dat", "TOWNS", 22050, 2*time.Second, "intro")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, reg.Driver, "towns")
	test.ExpectEquality(t, reg.String(), "[music] music.dat [towns] 22050Hz 2s [intro]")
	test.ExpectEquality(t, reg.Digest(), "")
}

func TestRegression(t *testing.T) {
	fn, db := setup(t)
	w := &test.CompareWriter{}

	// database does not exist yet
	test.ExpectFailure(t, regression.RegressList(w, db))

	reg, err := regression.NewMusicRegression(fn, "towns", 22050, time.Second, "")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, regression.RegressAdd(w, db, reg))
	test.ExpectEquality(t, len(reg.Digest()), 40)
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "added: 000 [music]"))

	// a resource that cannot be played is not added
	bad, err := regression.NewMusicRegression(filepath.Join(t.TempDir(), "missing"), "towns", 22050, time.Second, "")
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, regression.RegressAdd(w, db, bad))

	w.Clear()
	test.ExpectSuccess(t, regression.RegressList(w, db))
	test.ExpectEquality(t, len(w.Lines()), 2)
	test.ExpectEquality(t, w.Lines()[1], "Total: 1")

	w.Clear()
	fails, err := regression.RegressRun(w, db, false, false, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fails, 0)
	test.DemandEquality(t, len(w.Lines()), 2)
	test.ExpectSuccess(t, strings.HasPrefix(w.Lines()[0], "succeed: 000"))
	test.ExpectEquality(t, w.Lines()[1], "regression tests: 1 succeed, 0 fail, 0 skipped")

	// a second entry with a different sample rate produces a different digest
	reg2, err := regression.NewMusicRegression(fn, "towns", 44100, time.Second, "hifi")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, regression.RegressAdd(w, db, reg2))
	test.ExpectInequality(t, reg2.Digest(), reg.Digest())

	// only run the second entry
	w.Clear()
	fails, err = regression.RegressRun(w, db, false, false, []string{"1"})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fails, 0)
	test.DemandEquality(t, len(w.Lines()), 2)
	test.ExpectSuccess(t, strings.HasPrefix(w.Lines()[0], "succeed: 001"))
	test.ExpectEquality(t, w.Lines()[1], "regression tests: 1 succeed, 0 fail, 1 skipped")

	_, err = regression.RegressRun(w, db, false, false, []string{"x"})
	test.ExpectFailure(t, err)
	_, err = regression.RegressRun(w, db, false, false, []string{"5"})
	test.ExpectFailure(t, err)
}

func TestRegressionFailure(t *testing.T) {
	fn, db := setup(t)
	w := &test.CompareWriter{}

	reg, err := regression.NewMusicRegression(fn, "towns", 22050, time.Second, "")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, regression.RegressAdd(w, db, reg))

	// alter the recorded digest
	b, err := os.ReadFile(db)
	test.DemandSuccess(t, err)
	b = []byte(strings.Replace(string(b), reg.Digest(), strings.Repeat("0", 40), 1))
	test.DemandSuccess(t, os.WriteFile(db, b, 0o600))

	w.Clear()
	fails, err := regression.RegressRun(w, db, true, false, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fails, 1)
	test.DemandEquality(t, len(w.Lines()), 3)
	test.ExpectSuccess(t, strings.HasPrefix(w.Lines()[0], "failure: 000"))
	test.ExpectSuccess(t, strings.HasPrefix(w.Lines()[1], "  digest mismatch"))
	test.ExpectEquality(t, w.Lines()[2], "regression tests: 0 succeed, 1 fail, 0 skipped")

	// the music resource has gone
	test.DemandSuccess(t, os.Remove(fn))
	w.Clear()
	fails, err = regression.RegressRun(w, db, false, true, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fails, 1)
	test.DemandEquality(t, len(w.Lines()), 2)
	test.ExpectSuccess(t, strings.HasPrefix(w.Lines()[0], "  ERROR: 000"))
	test.ExpectEquality(t, w.Lines()[1], "regression tests: 0 succeed, 0 fail, 0 skipped [with errors]")
}

func TestRegressDelete(t *testing.T) {
	fn, db := setup(t)
	w := &test.CompareWriter{}

	reg, err := regression.NewMusicRegression(fn, "towns", 22050, time.Second, "")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, regression.RegressAdd(w, db, reg))

	test.ExpectFailure(t, regression.RegressDelete(w, strings.NewReader("y\n"), db, "abc"))
	test.ExpectFailure(t, regression.RegressDelete(w, strings.NewReader("y\n"), db, "3"))

	// declined
	w.Clear()
	test.ExpectSuccess(t, regression.RegressDelete(w, strings.NewReader("n\n"), db, "0"))
	w.Clear()
	test.ExpectSuccess(t, regression.RegressList(w, db))
	test.ExpectEquality(t, w.Lines()[len(w.Lines())-1], "Total: 1")

	w.Clear()
	test.ExpectSuccess(t, regression.RegressDelete(w, strings.NewReader("y\n"), db, "0"))
	test.ExpectEquality(t, w.Lines()[len(w.Lines())-1], "deleted test #000 from regression database")
	w.Clear()
	test.ExpectSuccess(t, regression.RegressList(w, db))
	test.ExpectSuccess(t, w.Compare("database is empty\n"))
}
