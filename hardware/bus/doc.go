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

// Package bus defines the register bus shared by every peripheral slot.
//
// A Command is broadcast to every slot on every tick of the base clock. Each
// slot decides for itself whether the command is addressed to it and, if it
// is, routes the read or write effect into its own register file. Slots
// never talk to each other directly: the only information that travels from
// slot to slot is the Status pair (busy and address-match) and the data
// byte, threaded through the chain in slot order.
//
// The passthrough rules mean that exactly one slot's state is visible at the
// chain's far end for any given address. There is no central arbiter; the
// cost is a propagation path proportional to chain length, which is
// acceptable because the chain is never longer than sixteen slots and the
// whole chain is evaluated once per tick.
//
// The package also defines the decode of the host command byte: operation
// (read, write, write-then-read), word size and the same/increment
// addressing flag. The addressing flag is what a peripheral's own register
// logic consults when deciding whether to bump its internal pointer after a
// transfer; streaming many bytes into a single FIFO register relies on it.
package bus
