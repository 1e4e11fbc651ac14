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

// RegisterFile is the owned register storage of a single peripheral slot.
// What is distributed RAM in the modelled hardware is a fixed-capacity byte
// array here: nothing outside the owning peripheral ever names these
// registers directly.
//
// RegisterFile does no field decoding of its own. Register side effects
// (clearing a pending flag, latching a configuration field) belong to the
// owning peripheral.
type RegisterFile struct {
	regs []uint8
}

// NewRegisterFile creates register storage with n registers. Peripherals
// implement anywhere from a handful of registers to a couple of thousand
// (the enumerator ROM).
func NewRegisterFile(n uint16) RegisterFile {
	return RegisterFile{regs: make([]uint8, n)}
}

// Len returns the number of implemented registers. The value doubles as the
// peripheral's address-match range.
func (rf *RegisterFile) Len() uint16 {
	return uint16(len(rf.regs))
}

// Read the register at offset. Offsets outside the implemented range read
// as zero; a matched command can never carry such an offset but internal
// logic is free to ask.
func (rf *RegisterFile) Read(offset uint16) uint8 {
	if int(offset) >= len(rf.regs) {
		return 0
	}
	return rf.regs[offset]
}

// Write the register at offset. Writes outside the implemented range are
// dropped.
func (rf *RegisterFile) Write(offset uint16, data uint8) {
	if int(offset) >= len(rf.regs) {
		return
	}
	rf.regs[offset] = data
}

// Reset sets every register to zero.
func (rf *RegisterFile) Reset() {
	for i := range rf.regs {
		rf.regs[i] = 0
	}
}
