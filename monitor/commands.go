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

package monitor

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/logger"
)

const helpText = `PEEK slot offset          read one register
POKE slot offset value    write one register
POLL                      run to the next poll pulse, report pending count
STEP [n]                  step the system n ticks (default 1)
TICKS                     show the tick counter
CHAIN                     list the peripheral chain
LOG                       show the session log
GRAPH [file]              dump the system object graph as graphviz dot
HELP                      this text
QUIT                      leave the monitor
`

// execute one monitor command, writing any results to output. The returned
// bool is true if the session should end.
//
// Numeric arguments accept the usual Go prefixes, so 0x10 and 16 are the
// same register.
func (mon *Monitor) execute(line string, output io.Writer) (bool, error) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return false, nil
	}

	arg := func(i int, bitSize int) (uint64, error) {
		if i >= len(fields) {
			return 0, curated.Errorf(MonitorError, fmt.Errorf("%s: not enough arguments", fields[0]))
		}
		v, err := strconv.ParseUint(strings.ToLower(fields[i]), 0, bitSize)
		if err != nil {
			return 0, curated.Errorf(MonitorError, err)
		}
		return v, nil
	}

	switch fields[0] {
	case "PEEK":
		slot, err := arg(1, 8)
		if err != nil {
			return false, err
		}
		offset, err := arg(2, 16)
		if err != nil {
			return false, err
		}
		v, err := mon.sys.Peek(uint8(slot), uint16(offset), 0)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(output, "%02d/%#04x -> %#02x\r\n", slot, offset, v)

	case "POKE":
		slot, err := arg(1, 8)
		if err != nil {
			return false, err
		}
		offset, err := arg(2, 16)
		if err != nil {
			return false, err
		}
		data, err := arg(3, 8)
		if err != nil {
			return false, err
		}
		if err := mon.sys.Poke(uint8(slot), uint16(offset), uint8(data)); err != nil {
			return false, err
		}
		fmt.Fprintf(output, "%02d/%#04x <- %#02x\r\n", slot, offset, data)

	case "POLL":
		fmt.Fprintf(output, "pending: %d\r\n", mon.sys.Poll())

	case "STEP":
		n := uint64(1)
		if len(fields) > 1 {
			var err error
			n, err = arg(1, 32)
			if err != nil {
				return false, err
			}
		}
		mon.sys.Idle(int(n))
		fmt.Fprintf(output, "%v\r\n", mon.sys.Ticks)

	case "TICKS":
		fmt.Fprintf(output, "%v\r\n", mon.sys.Ticks)

	case "CHAIN":
		fmt.Fprintf(output, "%v", mon.sys.Chain)

	case "LOG":
		logger.Write(output)

	case "GRAPH":
		out := output
		if len(fields) > 1 {
			f, err := os.Create(strings.ToLower(fields[1]))
			if err != nil {
				return false, curated.Errorf(MonitorError, err)
			}
			defer f.Close()
			out = f
		}
		memviz.Map(out, mon.sys)

	case "HELP":
		fmt.Fprint(output, helpText)

	case "QUIT", "EXIT":
		return true, nil

	default:
		return false, curated.Errorf(MonitorError, fmt.Errorf("unknown command: %s", fields[0]))
	}

	return false, nil
}
