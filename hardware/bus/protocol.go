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

import "github.com/jetspin/perichain/curated"

// sentinel error for the protocol decoder.
const UnknownCommand = "bus: unknown command byte: %#02x"

// Operation requested by a host command byte.
type Operation int

// List of valid Operation values. OpWriteRead writes the transfer data and
// then reads back from the same addresses in a single transaction.
const (
	OpRead Operation = iota
	OpWrite
	OpWriteRead
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpWriteRead:
		return "write-read"
	}
	panic("unknown bus operation")
}

// WordSize of a host transfer.
type WordSize int

// List of valid WordSize values.
const (
	Word8 WordSize = iota
	Word16
)

func (w WordSize) String() string {
	switch w {
	case Word8:
		return "8bit"
	case Word16:
		return "16bit"
	}
	panic("unknown word size")
}

// Addressing indicates whether the register address increments after each
// transferred word or stays fixed. Fixed addressing is how many bytes are
// streamed into a single FIFO register.
type Addressing int

// List of valid Addressing values.
const (
	SameAddress Addressing = iota
	IncrementAddress
)

func (a Addressing) String() string {
	switch a {
	case SameAddress:
		return "same"
	case IncrementAddress:
		return "increment"
	}
	panic("unknown addressing mode")
}

// the fields of the host command byte.
const (
	cmdOpField   = 0x0c
	cmdOpRead    = 0x04
	cmdOpWrite   = 0x08
	cmdOpWrRd    = 0x30
	cmdSameField = 0x02
	cmdSuccReg   = 0x02
	cmdLenField  = 0x01
	cmdWord16    = 0x01
)

// HostCommand is the decoded form of the host command byte that prefixes
// every transfer on the host link.
type HostCommand struct {
	Op   Operation
	Word WordSize
	Addr Addressing
}

// DecodeHostCommand decodes the command byte that prefixes a host transfer.
//
// Note that the write-then-read operation is encoded outside the two bit
// operation field and must be checked for first.
func DecodeHostCommand(b uint8) (HostCommand, error) {
	hc := HostCommand{}

	if b&cmdOpWrRd == cmdOpWrRd {
		hc.Op = OpWriteRead
	} else {
		switch b & cmdOpField {
		case cmdOpRead:
			hc.Op = OpRead
		case cmdOpWrite:
			hc.Op = OpWrite
		default:
			return HostCommand{}, curated.Errorf(UnknownCommand, b)
		}
	}

	if b&cmdLenField == cmdWord16 {
		hc.Word = Word16
	}

	if b&cmdSameField == cmdSuccReg {
		hc.Addr = IncrementAddress
	}

	return hc, nil
}

// Encode returns the command byte for the host command.
func (hc HostCommand) Encode() uint8 {
	var b uint8

	switch hc.Op {
	case OpRead:
		b = cmdOpRead
	case OpWrite:
		b = cmdOpWrite
	case OpWriteRead:
		b = cmdOpWrRd
	}

	if hc.Word == Word16 {
		b |= cmdWord16
	}

	if hc.Addr == IncrementAddress {
		b |= cmdSuccReg
	}

	return b
}
