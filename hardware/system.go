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

package hardware

import (
	"fmt"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/chain"
	"github.com/jetspin/perichain/hardware/peripherals/enumerator"
	"github.com/jetspin/perichain/hardware/peripherals/espi"
	"github.com/jetspin/perichain/hardware/peripherals/gpio"
	"github.com/jetspin/perichain/hardware/peripherals/hostserial"
	"github.com/jetspin/perichain/hardware/peripherals/i2c"
	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/logger"
)

// sentinel errors for the hardware package.
const (
	SystemError = "system: %v"
	BusTimeout  = "system: slot %d busy for too long"
	NoResponse  = "system: no response from slot %d"
)

// number of ticks a host-level access will wait out a busy reply before
// giving up. generously larger than the longest engine transaction.
const busyTimeout = 100000000

// header strings at the front of the enumerator ROM.
var romHeader = []string{
	"perichain",
	"register bus model",
}

// System is the main container for the modelled components of the register
// bus.
type System struct {
	Ticks *ticks.Generator
	Chain *chain.Chain

	// the standard peripheral complement, also reachable through the chain
	Enumerator *enumerator.Enumerator
	HostSerial *hostserial.HostSerial
	GPIO       *gpio.GPIO
	I2C        *i2c.I2C
	ESPI       *espi.ESPI

	// power state observed from the host serial peripheral on the most
	// recent tick
	power hostserial.PowerState
}

// NewSystem creates a new System and everything associated with the
// hardware. The chain carries the standard peripheral complement; the
// enumerator ROM at slot 0 is built from the driver names of the occupied
// slots.
func NewSystem() (*System, error) {
	sys := &System{
		Ticks: ticks.NewGenerator(),
		power: hostserial.PowerFullOn,
	}

	sys.HostSerial = hostserial.NewHostSerial(1)
	sys.GPIO = gpio.NewGPIO(2)
	sys.I2C = i2c.NewI2C(3)
	sys.ESPI = espi.NewESPI(4)

	drivers := []bus.PeripheralID{
		"enumerator",
		sys.HostSerial.ID(),
		sys.GPIO.ID(),
		sys.I2C.ID(),
		sys.ESPI.ID(),
	}

	var err error
	sys.Enumerator, err = enumerator.NewEnumerator(0, romHeader, drivers)
	if err != nil {
		return nil, curated.Errorf(SystemError, err)
	}

	sys.Chain, err = chain.NewChain(sys.Enumerator, sys.HostSerial, sys.GPIO, sys.I2C, sys.ESPI)
	if err != nil {
		return nil, curated.Errorf(SystemError, err)
	}

	logger.Logf("system", "chain assembled: %d slots", sys.Chain.NumSlots())

	return sys, nil
}

// Reset the system. The poll period survives a reset; everything else
// returns to its initial state.
func (sys *System) Reset() {
	sys.Ticks.Reset()
	sys.Chain.Reset()
	sys.power = hostserial.PowerFullOn
	logger.Log("system", "reset")
}

// Power returns the power state the system ran at on the most recent tick.
func (sys *System) Power() hostserial.PowerState {
	return sys.power
}

// gate the pulse set according to the current power state. Doze stops the
// sub-millisecond ranks that pace the serial engines; Sleep stops every
// derived pulse. The base tick itself never stops: the host can always
// reach the registers to wake the system up again.
func (sys *System) gate(p ticks.Pulses) ticks.Pulses {
	switch sys.power {
	case hostserial.PowerFullOn:
		// nothing gated

	case hostserial.PowerDoze:
		for r := ticks.N100; r < ticks.M1; r++ {
			p.Decade[r] = false
		}

	case hostserial.PowerSleep:
		p.Decade = [ticks.NumRanks]bool{}
		p.Poll = false
	}
	return p
}

// Step the system forward one base clock tick, broadcasting cmd to the
// chain. The returned byte and status are the chain-tail values for the
// tick.
func (sys *System) Step(cmd bus.Command) (uint8, bus.Status) {
	pulses := sys.gate(sys.Ticks.Advance())
	data, status := sys.Chain.Step(cmd, pulses)

	power := sys.HostSerial.Power()
	if power != sys.power {
		logger.Logf("system", "power: %v", power)
		if power == hostserial.PowerReset {
			// reset reloads the peripheral defaults. the host serial
			// peripheral comes back at full power, which is how the
			// system leaves the reset state again
			sys.Chain.Reset()
			power = sys.HostSerial.Power()
		}
		sys.power = power
	}

	return data, status
}

// Idle steps the system n ticks with no command on the bus.
func (sys *System) Idle(n int) {
	for i := 0; i < n; i++ {
		sys.Step(bus.Idle())
	}
}

// Peek reads one byte from a peripheral register, waiting out a busy reply.
func (sys *System) Peek(slot uint8, offset uint16, data uint8) (uint8, error) {
	cmd := bus.Command{
		Direction: bus.Read,
		Strobe:    true,
		Slot:      slot,
		Offset:    offset,
		Data:      data,
	}
	return sys.access(cmd)
}

// Poke writes one byte to a peripheral register, waiting out a busy reply.
func (sys *System) Poke(slot uint8, offset uint16, data uint8) error {
	cmd := bus.Command{
		Direction: bus.Write,
		Strobe:    true,
		Slot:      slot,
		Offset:    offset,
		Data:      data,
	}
	_, err := sys.access(cmd)
	return err
}

// access issues cmd every tick until the addressed slot accepts it.
func (sys *System) access(cmd bus.Command) (uint8, error) {
	for i := 0; i < busyTimeout; i++ {
		data, status := sys.Step(cmd)

		if !status.Match {
			return 0, curated.Errorf(NoResponse, cmd.Slot)
		}
		if !status.Busy {
			return data, nil
		}
	}
	return 0, curated.Errorf(BusTimeout, cmd.Slot)
}

// Transfer performs a multi-word host command against the chain, one word
// per accepted bus cycle. For a write or write-then-read command, data
// supplies the outgoing bytes; the returned slice holds the bytes read
// back, if any.
//
// The in-slot offset moves according to the command's addressing mode:
// fixed addressing streams every word through the same register, which is
// how the packet engines are fed.
func (sys *System) Transfer(hc bus.HostCommand, slot uint8, offset uint16, data []uint8) ([]uint8, error) {
	bytesPerWord := 1
	if hc.Word == bus.Word16 {
		bytesPerWord = 2
	}

	write := func(off uint16, i int) error {
		if i >= len(data) {
			return curated.Errorf(SystemError, fmt.Errorf("transfer underrun at byte %d", i))
		}
		return sys.Poke(slot, off, data[i])
	}

	var read []uint8
	numWords := len(data) / bytesPerWord
	if hc.Op == bus.OpRead {
		numWords = len(data)
		bytesPerWord = 1
	}

	for w := 0; w < numWords; w++ {
		off := offset
		if hc.Addr == bus.IncrementAddress {
			off += uint16(w * bytesPerWord)
		}

		for b := 0; b < bytesPerWord; b++ {
			switch hc.Op {
			case bus.OpRead:
				v, err := sys.Peek(slot, off+uint16(b), 0)
				if err != nil {
					return read, err
				}
				read = append(read, v)

			case bus.OpWrite:
				if err := write(off+uint16(b), w*bytesPerWord+b); err != nil {
					return read, err
				}

			case bus.OpWriteRead:
				if err := write(off+uint16(b), w*bytesPerWord+b); err != nil {
					return read, err
				}
				v, err := sys.Peek(slot, off+uint16(b), 0)
				if err != nil {
					return read, err
				}
				read = append(read, v)
			}
		}
	}

	return read, nil
}

// Poll steps the system to the next poll pulse and returns the byte count
// presented at the chain tail. A zero count means no slot has unsolicited
// data pending.
func (sys *System) Poll() uint8 {
	for {
		sys.Step(bus.Idle())
		if sys.Ticks.Pulses().Poll {
			return sys.Chain.Data()
		}
	}
}

func (sys *System) String() string {
	return fmt.Sprintf("%vpower: %v\n%v", sys.Chain, sys.power, sys.Ticks)
}
