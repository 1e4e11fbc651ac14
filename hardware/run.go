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
	"github.com/jetspin/perichain/hardware/bus"
)

// The continueCheck() function runs on every base clock tick, which can be
// expensive. PerformanceBrake is a standard value that can be used to
// filter out expensive code paths within a continueCheck() implementation.
// For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if endCondition {
//			return false, nil
//		}
//	}
//	return true, nil
const PerformanceBrake = 100

// Run the system with an idle bus as quickly as possible. The simulation
// continues until continueCheck returns false or an error. A nil
// continueCheck runs forever.
//
// Peripherals keep ticking while the bus is idle, so a Run loop is how
// engine transactions set up through Poke are carried to completion when
// the host has nothing further to say.
func (sys *System) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		sys.Step(bus.Idle())

		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
