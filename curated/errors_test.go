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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/test"
)

const testPattern = "test error: %v"
const wrapPattern = "wrapping: %v"

func TestIs(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	test.ExpectedSuccess(t, curated.IsAny(e))
	test.ExpectedSuccess(t, curated.Is(e, testPattern))
	test.ExpectedFailure(t, curated.Is(e, wrapPattern))

	// plain errors are not curated errors
	p := errors.New("plain error")
	test.ExpectedFailure(t, curated.IsAny(p))
	test.ExpectedFailure(t, curated.Is(p, testPattern))

	// nil is never a curated error
	test.ExpectedFailure(t, curated.IsAny(nil))
}

func TestHas(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	f := curated.Errorf(wrapPattern, e)

	// Is() only matches the head of the chain
	test.ExpectedSuccess(t, curated.Is(f, wrapPattern))
	test.ExpectedFailure(t, curated.Is(f, testPattern))

	// Has() matches anywhere in the chain
	test.ExpectedSuccess(t, curated.Has(f, wrapPattern))
	test.ExpectedSuccess(t, curated.Has(f, testPattern))
}

func TestDeduplication(t *testing.T) {
	// adjacent duplicate message parts are removed when formatting
	e := curated.Errorf("segment: %v", curated.Errorf("segment: %v", "detail"))
	test.Equate(t, e.Error(), "segment: detail")

	// non-duplicate parts are preserved
	f := curated.Errorf("outer: %v", curated.Errorf("inner: %v", "detail"))
	test.Equate(t, f.Error(), "outer: inner: detail")
}
