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

package hardware_test

import (
	"testing"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware"
	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/peripherals/gpio"
	"github.com/jetspin/perichain/hardware/peripherals/hostserial"
	"github.com/jetspin/perichain/hardware/peripherals/i2c"
	"github.com/jetspin/perichain/test"
)

func newSystem(t *testing.T) *hardware.System {
	t.Helper()
	sys, err := hardware.NewSystem()
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestAssembly(t *testing.T) {
	sys := newSystem(t)
	test.Equate(t, sys.Chain.NumSlots(), 5)

	// the enumerator ROM starts with the header strings
	v, err := sys.Peek(sys.Enumerator.Slot(), 0, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint8('p'))

	// a slot beyond the chain never matches
	_, err = sys.Peek(9, 0, 0)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, hardware.NoResponse))
}

func TestPokePeekRoundTrip(t *testing.T) {
	sys := newSystem(t)

	err := sys.Poke(sys.GPIO.Slot(), uint16(gpio.RegDirection), 0x0c)
	test.ExpectedSuccess(t, err)

	v, err := sys.Peek(sys.GPIO.Slot(), uint16(gpio.RegDirection), 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint8(0x0c))
}

func TestTransfer(t *testing.T) {
	sys := newSystem(t)

	// incrementing write walks the register file
	hc := bus.HostCommand{Op: bus.OpWrite, Word: bus.Word8, Addr: bus.IncrementAddress}
	_, err := sys.Transfer(hc, sys.GPIO.Slot(), uint16(gpio.RegPins), []uint8{0x05, 0x0f})
	test.ExpectedSuccess(t, err)

	hc.Op = bus.OpRead
	read, err := sys.Transfer(hc, sys.GPIO.Slot(), uint16(gpio.RegPins), make([]uint8, 2))
	test.ExpectedSuccess(t, err)
	test.Equate(t, read[0], uint8(0x05))
	test.Equate(t, read[1], uint8(0x0f))
}

func TestPollSweep(t *testing.T) {
	sys := newSystem(t)

	// a quiet chain polls empty
	test.Equate(t, sys.Poll(), uint8(0))

	// an input pin change raises a one byte pending update
	sys.Poke(sys.GPIO.Slot(), uint16(gpio.RegIntrMask), 0x01)
	sys.GPIO.SetPins(0x01)
	test.Equate(t, sys.Poll(), uint8(1))

	// the strobed read of the pin register acknowledges the update
	_, err := sys.Peek(sys.GPIO.Slot(), uint16(gpio.RegPins), 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, sys.Poll(), uint8(0))
}

// run the system until the condition holds, with a tick budget.
func runUntil(t *testing.T, sys *hardware.System, budget int, cond func() bool) {
	t.Helper()
	n := 0
	err := sys.Run(func() (bool, error) {
		n++
		if n > budget {
			t.Fatal("condition not met within tick budget")
		}
		return !cond(), nil
	})
	test.ExpectedSuccess(t, err)
}

func TestPowerGating(t *testing.T) {
	sys := newSystem(t)

	// arm the bit engine with a start/stop packet
	test.ExpectedSuccess(t, sys.Poke(sys.I2C.Slot(), 0, i2c.BitStart))
	test.ExpectedSuccess(t, sys.Poke(sys.I2C.Slot(), 1, i2c.BitStop))
	test.Equate(t, sys.I2C.InTransfer(), true)

	// dozing freezes the engine mid transfer
	test.ExpectedSuccess(t, sys.Poke(sys.HostSerial.Slot(), uint16(hostserial.RegPower), uint8(hostserial.PowerDoze)))
	sys.Idle(1)
	test.Equate(t, sys.Power() == hostserial.PowerDoze, true)

	quarter := sys.I2C.BitQuarter()
	index := sys.I2C.BitIndex()
	sys.Idle(1000)
	test.Equate(t, sys.I2C.InTransfer(), true)
	test.Equate(t, sys.I2C.BitQuarter(), quarter)
	test.Equate(t, sys.I2C.BitIndex(), index)

	// back at full power the transfer runs to completion
	test.ExpectedSuccess(t, sys.Poke(sys.HostSerial.Slot(), uint16(hostserial.RegPower), uint8(hostserial.PowerFullOn)))
	runUntil(t, sys, 100000, sys.I2C.DataReady)
}

func TestPowerReset(t *testing.T) {
	sys := newSystem(t)

	sys.Poke(sys.GPIO.Slot(), uint16(gpio.RegDirection), 0x0f)

	test.ExpectedSuccess(t, sys.Poke(sys.HostSerial.Slot(), uint16(hostserial.RegPower), uint8(hostserial.PowerReset)))
	sys.Idle(1)

	// the reset state reloads peripheral defaults and the system comes
	// back at full power
	test.Equate(t, sys.Power() == hostserial.PowerFullOn, true)
	v, err := sys.Peek(sys.GPIO.Slot(), uint16(gpio.RegDirection), 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint8(0))
}

func TestOverflowSingleWrap(t *testing.T) {
	sys := newSystem(t)
	slot := sys.HostSerial.Slot()

	w := &test.CompareWriter{}
	sys.HostSerial.SetOutput(w)

	for i := 0; i < hostserial.FIFOCapacity; i++ {
		test.ExpectedSuccess(t, sys.Poke(slot, uint16(hostserial.RegFIFO), uint8(i)))
	}
	test.Equate(t, sys.HostSerial.Pending(), hostserial.FIFOCapacity)

	// a write to the full FIFO completes as a single bus transaction and
	// wraps exactly one byte. if the peripheral held the command busy the
	// retry loop would replay the write every tick, wrapping the FIFO
	// once per held tick
	test.ExpectedSuccess(t, sys.Poke(slot, uint16(hostserial.RegFIFO), 0xff))
	test.Equate(t, sys.HostSerial.Pending(), hostserial.FIFOCapacity)
	test.ExpectedSuccess(t, sys.HostSerial.Overflow())

	// drain the line. only the oldest byte has been lost to the wrap
	sys.Idle(65000)
	test.Equate(t, sys.HostSerial.Pending(), 0)

	sent := w.String()
	test.Equate(t, len(sent), hostserial.FIFOCapacity)
	test.Equate(t, sent[0], uint8(1))
	test.Equate(t, sent[len(sent)-1], uint8(0xff))
}
