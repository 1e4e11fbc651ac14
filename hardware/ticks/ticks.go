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

package ticks

import (
	"fmt"
)

// Rank identifies one of the derived decade pulses.
type Rank int

// List of valid Rank values, from the base period upwards. The names follow
// the usual engineering shorthand: N for nanoseconds, U for microseconds, M
// for milliseconds and S for seconds.
const (
	N100 Rank = iota
	U1
	U10
	U100
	M1
	M10
	M100
	S1
)

// NumRanks is the number of derived decade pulses.
const NumRanks = 8

// each rank is ten times slower than the rank before it.
const decade = 10

func (r Rank) String() string {
	switch r {
	case N100:
		return "100ns"
	case U1:
		return "1us"
	case U10:
		return "10us"
	case U100:
		return "100us"
	case M1:
		return "1ms"
	case M10:
		return "10ms"
	case M100:
		return "100ms"
	case S1:
		return "1s"
	}
	panic("unknown tick rank")
}

// Period returns the period of the rank expressed in base clock ticks.
func (r Rank) Period() uint64 {
	p := uint64(1)
	for i := Rank(0); i < r; i++ {
		p *= decade
	}
	return p
}

// TicksPerSecond is the number of base clock ticks in one second of
// modelled time.
const TicksPerSecond = 10000000

// DefaultPollPeriod is the default period of the poll pulse in base clock
// ticks (4ms).
const DefaultPollPeriod = 40000

// Pulses is the set of pulses asserted for the current tick. A Pulses value
// is only valid for the tick on which it was produced; it must not be
// retained by a consumer.
type Pulses struct {
	Decade [NumRanks]bool

	// Poll triggers the sweep of the peripheral chain for unsolicited data.
	Poll bool
}

// Generator produces the pulse set once per base clock. It is the leaf of
// the dependency tree: everything else on the bus consumes its output.
type Generator struct {
	// number of Advance() calls since reset
	ticks uint64

	// decade down-counters. counter i is decremented when counter i-1
	// expires. counter 0 is implicit: the 100ns pulse fires on every tick
	count [NumRanks]int

	// the poll counter runs independently of the decade cascade so that its
	// phase can be adjusted without disturbing the timing of the decade
	// pulses
	pollPeriod int
	pollCount  int

	// pulse set for the most recent tick
	pulses Pulses
}

// NewGenerator is the preferred method of initialisation for the Generator
// type.
func NewGenerator() *Generator {
	tck := &Generator{}
	tck.Reset()
	return tck
}

// Reset returns the generator to its initial state. The poll period is
// preserved.
func (tck *Generator) Reset() {
	p := tck.pollPeriod
	if p == 0 {
		p = DefaultPollPeriod
	}

	tck.ticks = 0
	for i := range tck.count {
		tck.count[i] = decade
	}
	tck.pollPeriod = p
	tck.pollCount = p
	tck.pulses = Pulses{}
}

// SetPollPeriod changes the period of the poll pulse, expressed in base
// clock ticks. The phase of the poll counter is restarted.
func (tck *Generator) SetPollPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("ticks: invalid poll period (%d)", period)
	}
	tck.pollPeriod = period
	tck.pollCount = period
	return nil
}

// Advance the generator by one base clock tick and return the pulse set for
// that tick. The returned value is also available through Pulses() until
// the next call to Advance().
func (tck *Generator) Advance() Pulses {
	tck.ticks++

	p := Pulses{}

	// the base rank fires on every tick
	p.Decade[N100] = true

	// ripple through the decade cascade. a counter is only decremented when
	// the counter before it has expired
	for i := 1; i < NumRanks; i++ {
		tck.count[i]--
		if tck.count[i] > 0 {
			break
		}
		tck.count[i] = decade
		p.Decade[Rank(i)] = true
	}

	// poll counter is independently phased
	tck.pollCount--
	if tck.pollCount <= 0 {
		tck.pollCount = tck.pollPeriod
		p.Poll = true
	}

	tck.pulses = p
	return p
}

// Pulses returns the pulse set produced by the most recent call to
// Advance().
func (tck *Generator) Pulses() Pulses {
	return tck.pulses
}

// Ticks returns the number of base clock ticks since reset. The count is
// the monotonically advancing time base for the whole system.
func (tck *Generator) Ticks() uint64 {
	return tck.ticks
}

func (tck *Generator) String() string {
	return fmt.Sprintf("ticks=%d poll=%d/%d", tck.ticks, tck.pollCount, tck.pollPeriod)
}
