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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It works like the
// Errorf() function in the fmt package except that the formatting pattern is
// retained and can later be matched against.
//
// The Is() function checks whether an error was created by Errorf() with a
// given pattern:
//
//	e := curated.Errorf("i2c: %v", underlying)
//
//	if curated.Is(e, "i2c: %v") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks whether the pattern occurs
// anywhere in the error chain, rather than just at the head. Sentinel
// patterns are defined by the package that creates the error, by convention
// in a file named sentinels.go or near the top of the package's main file.
//
// When a curated error is formatted the message chain is normalised:
// duplicate adjacent message parts are removed. This keeps wrapped errors
// readable when an error is passed up through several layers that each add
// the same context.
package curated
