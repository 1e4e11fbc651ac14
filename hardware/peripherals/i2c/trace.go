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

package i2c

// Trace records the state of an electrical line, whether it is high or low,
// and also whether the immediately previous state is high or low.
//
// Moving from one state to the other is done with Tick(bool) where a
// boolean value of true indicates a high voltage state.
//
// The function Falling() returns true if the line voltage has moved from a
// high state to a low state; and Rising() returns true if the opposite is
// true.
//
// Deriving conditions from two traces is convenient. For example, given the
// two lines of an I2C bus, the start condition is:
//
//	if SCL.Hi() && SDA.Falling() {
//		start()
//	}
type Trace struct {
	Label string

	// new values are added to the end of the array
	Activity []bool

	from bool
	to   bool
}

const activityLength = 64

// NewTrace is the preferred method of initialisation for the Trace type.
// An I2C line idles high, so a new trace starts with an all-high history.
func NewTrace(label string) Trace {
	tr := Trace{
		Label:    label,
		Activity: make([]bool, activityLength),
		from:     true,
		to:       true,
	}
	for i := range tr.Activity {
		tr.Activity[i] = true
	}
	return tr
}

// Changed returns true if the most recent Tick() changed the line state.
func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

// Falling returns true if the line has just moved from high to low.
func (tr *Trace) Falling() bool {
	return tr.from && !tr.to
}

// Rising returns true if the line has just moved from low to high.
func (tr *Trace) Rising() bool {
	return !tr.from && tr.to
}

// Hi returns true if the line is high.
func (tr *Trace) Hi() bool {
	return tr.to
}

// Lo returns true if the line is low.
func (tr *Trace) Lo() bool {
	return !tr.to
}

// Tick the line to its new state.
func (tr *Trace) Tick(v bool) {
	tr.from = tr.to
	tr.to = v
	tr.Activity = append(tr.Activity[1:], v)
}
