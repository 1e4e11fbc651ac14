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

package linerecorder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetspin/perichain/linerecorder"
	"github.com/jetspin/perichain/test"
	"github.com/youpy/go-wav"
)

func TestCapture(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lines.wav")

	rec := linerecorder.NewRecorder(filename)

	// idle lines, a falling edge on channel zero, then both low
	rec.Sample(true, true)
	rec.Sample(false, true)
	rec.Sample(false, false)
	test.Equate(t, rec.NumSamples(), 3)

	err := rec.End()
	test.ExpectedSuccess(t, err)

	f, err := os.Open(filename)
	test.ExpectedSuccess(t, err)
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(format.NumChannels), 2)

	samples, err := r.ReadSamples(3)
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(samples), 3)

	// channel zero: high, low, low. channel one: high, high, low
	test.Equate(t, r.IntValue(samples[0], 0) > r.IntValue(samples[1], 0), true)
	test.Equate(t, r.IntValue(samples[1], 1) > r.IntValue(samples[2], 1), true)
	test.Equate(t, r.IntValue(samples[1], 0), r.IntValue(samples[2], 0))
}
