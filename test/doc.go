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

// Package test contains helper functions to remove some of the boiler-plate
// when writing tests.
//
// The Equate() function compares like-typed values for equality, with some
// laxness around literal number values.
//
// ExpectedSuccess() and ExpectedFailure() test the success or failure value
// of a bool or error.
//
// CompareWriter is an implementation of the io.Writer interface useful for
// capturing terminal style output and comparing it against an expected
// string.
package test
