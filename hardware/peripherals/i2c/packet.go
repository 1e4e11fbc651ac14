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

// EncodeByte expands a byte into its eight bit cells, most significant bit
// first. Host side convenience: a driver streams the result into the packet
// RAM, typically followed by a released cell for the target's acknowledge.
func EncodeByte(b uint8) []uint8 {
	cells := make([]uint8, 0, 8)
	for i := 7; i >= 0; i-- {
		if (b>>uint(i))&1 == 1 {
			cells = append(cells, BitOne)
		} else {
			cells = append(cells, BitZero)
		}
	}
	return cells
}

// DecodeByte packs eight bit cells back into a byte, most significant bit
// first. Cells other than data cells decode as zero bits.
func DecodeByte(cells []uint8) uint8 {
	var b uint8
	for i := 0; i < 8 && i < len(cells); i++ {
		b <<= 1
		if cells[i]&0x03 == BitOne {
			b |= 1
		}
	}
	return b
}

// ReadCells returns n released cells. The target drives each one, so after
// the session completes the cells hold the target's data.
func ReadCells(n int) []uint8 {
	cells := make([]uint8, n)
	for i := range cells {
		cells[i] = BitOne
	}
	return cells
}
