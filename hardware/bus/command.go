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

import "fmt"

// Direction of the data transfer requested by a Command.
type Direction int

// List of valid Direction values.
const (
	Read Direction = iota
	Write
)

func (dir Direction) String() string {
	switch dir {
	case Read:
		return "read"
	case Write:
		return "write"
	}
	panic("unknown bus direction")
}

// MaxSlots is the maximum number of peripheral slots on one chain. The slot
// selector is a four bit field.
const MaxSlots = 16

// MaxOffset is the largest in-slot register offset. The offset is a twelve
// bit field; how much of the range a peripheral implements is its own
// business.
const MaxOffset = 0xfff

// Command is the broadcast presented to every slot on the chain for one
// tick of the base clock. A Command is immutable for the tick on which it
// is issued.
//
// A Command with Strobe set is a fully valid, addressed command. A Command
// with Strobe clear is an idle or poll tick: no register access takes place
// but a slot with unsolicited data may use the tick to present itself (see
// the unsolicited-update rule in the Peripheral interface commentary).
type Command struct {
	Direction Direction

	// Strobe qualifies the tick as carrying a valid addressed command
	Strobe bool

	// the slot selector (four bits)
	Slot uint8

	// the in-slot register offset (twelve bits)
	Offset uint16

	// data for the addressed slot. on ticks where no slot matches, the data
	// byte passes through the chain unchanged
	Data uint8
}

// Idle returns the Command for a tick on which the host has nothing to say.
// The poll sweep is an Idle command: the interesting information travels in
// the opposite direction.
func Idle() Command {
	return Command{Direction: Read}
}

// AddressesSlot returns true if the command is a strobed command addressed
// to the given slot and falls within the first numRegisters of the slot's
// register range.
func (cmd Command) AddressesSlot(slot uint8, numRegisters uint16) bool {
	return cmd.Strobe && cmd.Slot == slot && cmd.Offset < numRegisters
}

func (cmd Command) String() string {
	if !cmd.Strobe {
		return "idle"
	}
	return fmt.Sprintf("%v slot=%d offset=%#03x data=%#02x", cmd.Direction, cmd.Slot, cmd.Offset, cmd.Data)
}

// Status is the busy/address-match pair threaded through the chain, slot to
// slot. A Status value is a read-only borrow: a slot combines its own state
// with the Status it receives and passes the result on. It must never be
// retained past the tick.
type Status struct {
	Busy  bool
	Match bool
}

// Reply computes a slot's chain contribution from its local state and the
// status received from the slot before it.
//
// The passthrough rules are the heart of the chaining contract:
//
//	matchOut = matchLocal OR matchIn
//	busyOut  = matchLocal ? busyLocal : busyIn
//	dataOut  = matchLocal ? local data : upstream data
//
// Slot addresses are disjoint so at most one slot on a chain ever has
// matchLocal set for a given command.
func Reply(matchLocal bool, busyLocal bool, local uint8, in Status, data uint8) (Status, uint8) {
	out := Status{
		Match: matchLocal || in.Match,
		Busy:  in.Busy,
	}
	if matchLocal {
		out.Busy = busyLocal
		data = local
	}
	return out, data
}
