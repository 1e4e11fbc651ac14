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

package main

import (
	"fmt"
	"os"

	"github.com/jetspin/perichain/hardware"
	"github.com/jetspin/perichain/linerecorder"
	"github.com/jetspin/perichain/logger"
	"github.com/jetspin/perichain/modalflag"
	"github.com/jetspin/perichain/monitor"
	"github.com/jetspin/perichain/script"
	"github.com/jetspin/perichain/statsview"
	"github.com/jetspin/perichain/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "MONITOR", "SCRIPT", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "MONITOR":
		err = mon(md)

	case "SCRIPT":
		err = scr(md)

	case "VERSION":
		vrs, rev, _ := version.Version()
		fmt.Printf("%s (%s)\n", vrs, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	numTicks := md.AddUint64("ticks", 0, "number of base clock ticks to run (0 means forever)")
	log := md.AddBool("log", false, "echo the session log to stderr")
	stats := md.AddBool("stats", false, "save statistics view of running system")
	record := md.AddString("record", "", "record the I2C lines to the named WAV file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr, true)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* statsview not available. build with statsview tag")
		}
	}

	sys, err := hardware.NewSystem()
	if err != nil {
		return err
	}

	var rec *linerecorder.Recorder
	if *record != "" {
		rec = linerecorder.NewRecorder(*record)
		defer func() {
			if err := rec.End(); err != nil {
				fmt.Printf("* %v\n", err)
			}
		}()
	}

	n := uint64(0)
	return sys.Run(func() (bool, error) {
		if rec != nil {
			rec.Sample(sys.I2C.SDA.Hi(), sys.I2C.SCL.Hi())
		}
		n++
		return *numTicks == 0 || n < *numTicks, nil
	})
}

func mon(md *modalflag.Modes) error {
	md.NewMode()

	log := md.AddBool("log", false, "echo the session log to stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr, true)
	}

	sys, err := hardware.NewSystem()
	if err != nil {
		return err
	}

	return monitor.NewMonitor(sys).Launch()
}

func scr(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("no script file specified")
	case 1:
		sys, err := hardware.NewSystem()
		if err != nil {
			return err
		}
		return script.RunFile(sys, md.GetArg(0))
	default:
		return fmt.Errorf("too many script files specified")
	}
}
