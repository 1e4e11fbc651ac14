// This file is part of Perichain.
//
// Perichain is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Perichain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Perichain.  If not, see <https://www.gnu.org/licenses/>.

package enumerator_test

import (
	"strings"
	"testing"

	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/peripherals/enumerator"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/test"
)

// read the whole ROM a byte at a time, the way the host would.
func readROM(enm *enumerator.Enumerator) []uint8 {
	rom := make([]uint8, 0, enumerator.ROMSize)
	for o := uint16(0); o < enumerator.ROMSize; o++ {
		cmd := bus.Command{Direction: bus.Read, Strobe: true, Slot: 0, Offset: o}
		_, data := enm.Step(cmd, bus.Status{}, cmd.Data, ticks.Pulses{})
		rom = append(rom, data)
	}
	return rom
}

func TestROMImage(t *testing.T) {
	enm, err := enumerator.NewEnumerator(0,
		[]string{"perichain", "test build"},
		[]bus.PeripheralID{"enumerator", "gpio4", "ei2c"},
	)
	test.ExpectedSuccess(t, err)

	rom := readROM(enm)
	fields := strings.Split(string(rom), "\x00")

	// eight header strings, padded with empty strings
	test.Equate(t, fields[0], "perichain")
	test.Equate(t, fields[1], "test build")
	for i := 2; i < enumerator.NumHeaderStrings; i++ {
		test.Equate(t, fields[i], "")
	}

	// driver names follow in slot order
	test.Equate(t, fields[enumerator.NumHeaderStrings], "enumerator")
	test.Equate(t, fields[enumerator.NumHeaderStrings+1], "gpio4")
	test.Equate(t, fields[enumerator.NumHeaderStrings+2], "ei2c")
}

func TestROMIsReadOnly(t *testing.T) {
	enm, err := enumerator.NewEnumerator(0, nil, []bus.PeripheralID{"enumerator"})
	test.ExpectedSuccess(t, err)

	before := readROM(enm)

	// attempt to overwrite the first byte
	cmd := bus.Command{Direction: bus.Write, Strobe: true, Slot: 0, Offset: 0, Data: 0xff}
	enm.Step(cmd, bus.Status{}, cmd.Data, ticks.Pulses{})

	after := readROM(enm)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("ROM byte %d changed after write", i)
		}
	}
}

func TestROMOverflow(t *testing.T) {
	// a driver list that cannot fit the fixed ROM size
	name := bus.PeripheralID(strings.Repeat("x", 300))
	drivers := make([]bus.PeripheralID, 8)
	for i := range drivers {
		drivers[i] = name
	}

	_, err := enumerator.NewEnumerator(0, nil, drivers)
	test.ExpectedFailure(t, err)

	// too many header strings
	_, err = enumerator.NewEnumerator(0, make([]string, 9), []bus.PeripheralID{"enumerator"})
	test.ExpectedFailure(t, err)
}
