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

// Package ticks implements the timing pulse generator that paces every
// peripheral on the register bus.
//
// The base clock of the modelled system has a period of 100ns. The
// Generator divides the base clock through a cascade of decade counters,
// producing a set of pulses with periods of 100ns, 1us, 10us, 100us, 1ms,
// 10ms, 100ms and 1s. Each pulse is asserted for exactly one tick of the
// base clock at its nominal rate. Because the pulses are derived purely from
// counter equality there is no accumulated drift beyond the quantization of
// the counters themselves.
//
// In addition to the decade pulses the Generator produces an independently
// phased poll pulse. The poll pulse triggers the sweep of the peripheral
// chain for unsolicited data. The period of the poll pulse is configurable
// and defaults to 4ms.
package ticks
