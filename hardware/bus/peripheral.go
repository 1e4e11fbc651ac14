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

package bus

import "github.com/jetspin/perichain/hardware/ticks"

// PeripheralID identifies a peripheral type. The ID doubles as the driver
// name presented by the enumerator ROM.
type PeripheralID string

// Peripheral is the contract every slot on the register bus implements.
//
// Step advances the peripheral by one tick of the base clock. The same
// Command value is broadcast to every slot on the chain; in and data are the
// chain status and data byte received from the slot before this one (the
// first slot receives a zero Status and the command's own data byte). The
// returned values are passed to the next slot.
//
// A peripheral must honour the following rules on every tick:
//
//   - address match: matchLocal is true when the command is strobed, the
//     slot selector equals the peripheral's assigned slot and the offset is
//     within the peripheral's implemented register range.
//
//   - unsolicited update: on ticks where the command strobe is clear, a
//     peripheral that has decided it has data ready computes matchLocal and
//     its data byte as if it were addressed, presenting the number of bytes
//     it wants the host to read. this is how an idle poll sweep discovers
//     which slot (if any) wants service without knowing an address a priori.
//
//   - write effect: on a tick where matchLocal is set and the direction is
//     Write, the addressed register is updated from the command data byte,
//     along with any field-specific side effect.
//
//   - read side effect: on a tick where matchLocal is set, the direction is
//     Read and the strobe is set, any pending-update flag associated with
//     the read register is cleared. the handshake is edge-triggered: a
//     given update is reported exactly once.
//
// The passthrough arithmetic itself should be delegated to the Reply()
// function so that every peripheral combines its state with the chain in
// exactly the same way.
//
// Step also receives the pulse set for the current tick. Peripherals with
// internal timing (the serial protocol engines in particular) derive their
// sub-clocks from these pulses and must not keep time any other way.
type Peripheral interface {
	ID() PeripheralID

	// the slot address assigned at construction
	Slot() uint8

	Step(cmd Command, in Status, data uint8, pulses ticks.Pulses) (Status, uint8)

	// Reset returns the peripheral's registers and internal state to their
	// construction-time defaults
	Reset()
}
