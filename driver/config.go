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

package driver

import "fmt"

// Type identifies a sound hardware configuration.
type Type int

// List of valid Type values.
const (
	Type26 Type = iota
	Type86
	TypeTowns
)

func (t Type) String() string {
	switch t {
	case Type26:
		return "PC-9801-26"
	case Type86:
		return "PC-9801-86"
	case TypeTowns:
		return "FM-TOWNS"
	}
	return "unknown"
}

// Config describes the channel layout of the sound hardware.
type Config struct {
	// number of FM channels. between 1 and 6
	NumFM int

	// number of SSG channels. zero or three. sound effects are only possible
	// with three SSG channels
	NumSSG int

	// the rhythm channel is present
	Rhythm bool

	// the FM-TOWNS variant of the level preset table is used
	Towns bool
}

// NewConfig returns the configuration for the hardware type.
func NewConfig(t Type) Config {
	switch t {
	case Type26:
		return Config{NumFM: 3, NumSSG: 3}
	case Type86:
		return Config{NumFM: 6, NumSSG: 3, Rhythm: true}
	case TypeTowns:
		return Config{NumFM: 6, Towns: true}
	}
	return Config{}
}

// ParseType converts the strings "26", "86" and "towns" to a Type value.
func ParseType(s string) (Type, error) {
	switch s {
	case "26":
		return Type26, nil
	case "86":
		return Type86, nil
	case "towns", "TOWNS":
		return TypeTowns, nil
	}
	return Type26, fmt.Errorf("driver: unknown hardware type %q", s)
}

func (cfg Config) validate() error {
	if cfg.NumFM < 1 || cfg.NumFM > 6 {
		return fmt.Errorf("driver: %d FM channels is not supported", cfg.NumFM)
	}
	if cfg.NumSSG != 0 && cfg.NumSSG != 3 {
		return fmt.Errorf("driver: %d SSG channels is not supported", cfg.NumSSG)
	}
	return nil
}

// NumTracks returns the number of entries in the offset table at the start
// of a music resource.
func (cfg Config) NumTracks() int {
	n := cfg.NumFM + cfg.NumSSG
	if cfg.Rhythm {
		n++
	}
	return n
}

// sfxSupported is true if the configuration has SSG channels to lend to
// sound effects
func (cfg Config) sfxSupported() bool {
	return cfg.NumSSG >= 3
}
