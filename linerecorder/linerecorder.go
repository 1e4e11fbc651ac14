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

// Package linerecorder captures serial line activity as a two channel WAV
// file, one channel per line. The result is a logic trace that can be
// opened in any audio editor. Note that samples are buffered in memory in
// their entirety and written to disk on End(); it is therefore probably
// only suitable for short captures.
package linerecorder

import (
	"os"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/logger"
	"github.com/youpy/go-wav"
)

// sentinel errors for the linerecorder package.
const (
	RecorderError = "linerecorder: %v"
)

// sample levels for the two line states. mid-range values keep the trace
// away from the clipping point in editors that resample on load.
const (
	levelLo = 32
	levelHi = 224
)

// one sample per base clock tick. the value is a lie in wall clock terms
// but it keeps one second of modelled time at a manageable file size while
// preserving the tick-per-sample alignment that makes the trace readable.
const sampleFreq = 48000

// Recorder accumulates two channels of line levels, one sample pair per
// tick.
type Recorder struct {
	filename string
	buffer   []wav.Sample
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type.
func NewRecorder(filename string) *Recorder {
	return &Recorder{
		filename: filename,
		buffer:   make([]wav.Sample, 0),
	}
}

// Sample the two line levels for the current tick. For an I2C capture the
// convention is SDA on channel zero and SCL on channel one.
func (rec *Recorder) Sample(ch0 bool, ch1 bool) {
	w := wav.Sample{}
	w.Values[0] = levelLo
	w.Values[1] = levelLo
	if ch0 {
		w.Values[0] = levelHi
	}
	if ch1 {
		w.Values[1] = levelHi
	}
	rec.buffer = append(rec.buffer, w)
}

// NumSamples recorded so far.
func (rec *Recorder) NumSamples() int {
	return len(rec.buffer)
}

// End the capture and write the WAV file.
func (rec *Recorder) End() (rerr error) {
	f, err := os.Create(rec.filename)
	if err != nil {
		return curated.Errorf(RecorderError, err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf(RecorderError, err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(rec.buffer)), 2, sampleFreq, 8)
	if enc == nil {
		return curated.Errorf(RecorderError, "bad parameters for wav encoding")
	}

	logger.Logf("linerecorder", "writing %d samples to %s", len(rec.buffer), rec.filename)
	if err := enc.WriteSamples(rec.buffer); err != nil {
		return curated.Errorf(RecorderError, err)
	}

	return nil
}
