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

package ticks_test

import (
	"testing"

	"github.com/jetspin/perichain/hardware/ticks"
	"github.com/jetspin/perichain/test"
)

func TestRankPeriods(t *testing.T) {
	test.Equate(t, ticks.N100.Period(), uint64(1))
	test.Equate(t, ticks.U1.Period(), uint64(10))
	test.Equate(t, ticks.M1.Period(), uint64(10000))
	test.Equate(t, ticks.S1.Period(), uint64(10000000))
}

// every decade pulse must fire exactly once per nominal period, with no
// drift over a long run.
func TestDecadeCascade(t *testing.T) {
	tck := ticks.NewGenerator()

	// a count of fired pulses per rank over one modelled 10ms
	const run = 100000
	var fired [ticks.NumRanks]int

	for i := 0; i < run; i++ {
		p := tck.Advance()
		for r := 0; r < ticks.NumRanks; r++ {
			if p.Decade[r] {
				fired[r]++
			}
		}
	}

	test.Equate(t, tck.Ticks(), uint64(run))
	for r := ticks.Rank(0); r < ticks.NumRanks; r++ {
		expected := int(uint64(run) / r.Period())
		test.Equate(t, fired[r], expected)
	}
}

// a pulse is asserted for exactly one tick at a time.
func TestPulseWidth(t *testing.T) {
	tck := ticks.NewGenerator()

	prev := ticks.Pulses{}
	for i := 0; i < 1000; i++ {
		p := tck.Advance()
		for r := 1; r < ticks.NumRanks; r++ {
			if p.Decade[r] && prev.Decade[r] {
				t.Fatalf("rank %v pulse asserted for more than one tick", ticks.Rank(r))
			}
		}
		prev = p
	}
}

// slower pulses only ever fire on the same tick as all faster pulses. this
// is the defining property of a ripple cascade.
func TestCascadeAlignment(t *testing.T) {
	tck := ticks.NewGenerator()

	for i := 0; i < 200000; i++ {
		p := tck.Advance()
		for r := 1; r < ticks.NumRanks; r++ {
			if p.Decade[r] && !p.Decade[r-1] {
				t.Fatalf("rank %v fired without rank %v", ticks.Rank(r), ticks.Rank(r-1))
			}
		}
	}
}

func TestPollPulse(t *testing.T) {
	tck := ticks.NewGenerator()

	// default 4ms period
	ct := 0
	for i := 0; i < ticks.DefaultPollPeriod*3; i++ {
		if tck.Advance().Poll {
			ct++
		}
	}
	test.Equate(t, ct, 3)

	// poll phase is independent of the decade cascade
	tck.Reset()
	test.ExpectedSuccess(t, tck.SetPollPeriod(7))
	ct = 0
	for i := 0; i < 70; i++ {
		if tck.Advance().Poll {
			ct++
		}
	}
	test.Equate(t, ct, 10)

	// rejects nonsense periods
	test.ExpectedFailure(t, tck.SetPollPeriod(0))
	test.ExpectedFailure(t, tck.SetPollPeriod(-1))
}
