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

// Package monitor is the interactive terminal onto a running system. The
// terminal is put into raw mode for the duration of the session; commands
// drive the host side of the bus one access at a time.
package monitor

import (
	"bufio"
	"os"

	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware"
	"github.com/jetspin/perichain/monitor/easyterm"
)

// sentinel errors for the monitor package.
const (
	UserInterrupt = "user interrupt"
	MonitorError  = "monitor: %v"
)

const prompt = "[perichain] "

// Monitor is the main container for the interactive session.
type Monitor struct {
	sys *hardware.System

	term   easyterm.Terminal
	reader *bufio.Reader

	history []string
}

// NewMonitor is the preferred method of initialisation for the Monitor
// type.
func NewMonitor(sys *hardware.System) *Monitor {
	return &Monitor{
		sys:    sys,
		reader: bufio.NewReader(os.Stdin),
	}
}

// Launch the interactive session. Returns when the user quits or on a
// terminal error.
func (mon *Monitor) Launch() error {
	if err := mon.term.Initialise(os.Stdin, os.Stdout); err != nil {
		return curated.Errorf(MonitorError, err)
	}
	defer mon.term.CleanUp()

	for {
		line, err := mon.readLine()
		if err != nil {
			if curated.Is(err, UserInterrupt) {
				return nil
			}
			return err
		}

		quit, err := mon.execute(line, os.Stdout)
		if err != nil {
			mon.term.Print("error: %v\r\n", err)
		}
		if quit {
			return nil
		}
	}
}

// readLine reads one line of input with the terminal in raw mode. Editing
// is deliberately basic: backspace, ctrl-c/ctrl-d to leave, cursor up and
// down to walk the command history.
func (mon *Monitor) readLine() (string, error) {
	mon.term.RawMode()
	defer mon.term.CanonicalMode()

	input := make([]byte, 0, 255)
	historyIdx := len(mon.history)

	mon.term.Print("%s", prompt)

	for {
		r, _, err := mon.reader.ReadRune()
		if err != nil {
			return "", curated.Errorf(MonitorError, err)
		}

		switch r {
		case easyterm.KeyCtrlC, easyterm.KeyCtrlD:
			mon.term.Print("\r\n")
			return "", curated.Errorf(UserInterrupt)

		case easyterm.KeyCarriageReturn:
			mon.term.Print("\r\n")
			line := string(input)
			if line != "" {
				mon.history = append(mon.history, line)
			}
			return line, nil

		case easyterm.KeyBackspace:
			if len(input) > 0 {
				input = input[:len(input)-1]
				mon.term.Print("\b \b")
			}

		case easyterm.KeyEsc:
			// swallow the escape sequence; only the history cursors are
			// acted upon
			s, _, err := mon.reader.ReadRune()
			if err != nil {
				return "", curated.Errorf(MonitorError, err)
			}
			if s != easyterm.EscCursor {
				continue
			}
			c, _, err := mon.reader.ReadRune()
			if err != nil {
				return "", curated.Errorf(MonitorError, err)
			}

			switch c {
			case easyterm.CursorUp:
				if historyIdx > 0 {
					historyIdx--
					input = mon.redrawFromHistory(input, historyIdx)
				}
			case easyterm.CursorDown:
				if historyIdx < len(mon.history)-1 {
					historyIdx++
					input = mon.redrawFromHistory(input, historyIdx)
				}
			}

		default:
			if r >= 32 && r < 127 {
				input = append(input, byte(r))
				mon.term.Print("%c", r)
			}
		}
	}
}

func (mon *Monitor) redrawFromHistory(input []byte, idx int) []byte {
	for range input {
		mon.term.Print("\b \b")
	}
	input = append(input[:0], mon.history[idx]...)
	mon.term.Print("%s", string(input))
	return input
}
