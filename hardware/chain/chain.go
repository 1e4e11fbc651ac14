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

// Package chain threads the register bus through an ordered sequence of
// peripheral slots.
//
// In the modelled hardware the busy and address-match lines are purely
// combinational, daisy-chained from one peripheral to the next. In software
// that maps onto an ordered fold: for each tick the chain visits every
// peripheral in slot order, feeding the chain status and data byte returned
// by one peripheral into the next. The values visible at the chain tail
// after the fold are what the host sees for that tick.
//
// Causal ordering is preserved by construction. A peripheral only ever
// receives the contributions of the slots before it; nothing of the slots
// after it.
package chain

import (
	"fmt"
	"strings"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware/bus"
	"github.com/jetspin/perichain/hardware/ticks"
)

// sentinel errors for the chain package.
const (
	InvalidChain = "chain: %v"
)

// Chain is the ordered sequence of peripheral slots sharing the register
// bus.
type Chain struct {
	periphs []bus.Peripheral

	// chain-tail values from the most recent Step(). these are what the
	// host interface sees
	busy  bool
	match bool
	data  uint8
}

// NewChain is the preferred method of initialisation for the Chain type.
//
// Slot addresses must be unique and densely packed starting at zero: the
// peripheral at position i of the argument list must have been assigned
// slot address i. Chain misconfiguration is a construction-time fault, not
// a runtime error.
func NewChain(periphs ...bus.Peripheral) (*Chain, error) {
	if len(periphs) == 0 {
		return nil, curated.Errorf(InvalidChain, "no peripherals")
	}
	if len(periphs) > bus.MaxSlots {
		return nil, curated.Errorf(InvalidChain, fmt.Sprintf("too many peripherals (%d)", len(periphs)))
	}

	for i, p := range periphs {
		if int(p.Slot()) != i {
			return nil, curated.Errorf(InvalidChain,
				fmt.Sprintf("peripheral %s assigned slot %d but chained at position %d", p.ID(), p.Slot(), i))
		}
	}

	return &Chain{periphs: periphs}, nil
}

// Step the whole chain forward one tick of the base clock. cmd is broadcast
// to every slot; the fold threads the chain status and data byte through
// the slots in order.
//
// The returned byte and status are the chain-tail values for the tick; they
// are also available through Busy(), AddrMatch() and Data() until the next
// call to Step().
func (ch *Chain) Step(cmd bus.Command, pulses ticks.Pulses) (uint8, bus.Status) {
	status := bus.Status{}
	data := cmd.Data

	for _, p := range ch.periphs {
		status, data = p.Step(cmd, status, data, pulses)
	}

	ch.busy = status.Busy
	ch.match = status.Match
	ch.data = data

	return data, status
}

// Reset every peripheral on the chain.
func (ch *Chain) Reset() {
	for _, p := range ch.periphs {
		p.Reset()
	}
	ch.busy = false
	ch.match = false
	ch.data = 0
}

// Busy returns the chain-tail busy line for the most recent tick.
func (ch *Chain) Busy() bool {
	return ch.busy
}

// AddrMatch returns the chain-tail address-match line for the most recent
// tick.
func (ch *Chain) AddrMatch() bool {
	return ch.match
}

// Data returns the chain-tail data byte for the most recent tick. On a poll
// tick a non-zero value is the byte count being presented by a slot with
// unsolicited data.
func (ch *Chain) Data() uint8 {
	return ch.data
}

// NumSlots returns the number of occupied slots on the chain.
func (ch *Chain) NumSlots() int {
	return len(ch.periphs)
}

// Peripheral returns the peripheral at the given slot address.
func (ch *Chain) Peripheral(slot uint8) (bus.Peripheral, error) {
	if int(slot) >= len(ch.periphs) {
		return nil, curated.Errorf(InvalidChain, fmt.Sprintf("no peripheral at slot %d", slot))
	}
	return ch.periphs[slot], nil
}

func (ch *Chain) String() string {
	s := strings.Builder{}
	for _, p := range ch.periphs {
		s.WriteString(fmt.Sprintf("%02d: %s\n", p.Slot(), p.ID()))
	}
	return s.String()
}
