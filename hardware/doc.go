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

// Package hardware is the base package for the peripheral bus model. It and
// its sub-packages contain everything required for a headless simulation.
//
// The System type is the root of the model and contains external references
// to the tick generator, the peripheral chain and every peripheral on it.
// From here, the model can either be run continuously (with optional
// callback to check for continuation) or stepped tick by tick through the
// host-level Peek, Poke, Transfer and Poll functions.
package hardware
