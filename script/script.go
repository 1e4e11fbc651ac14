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

// Package script drives the host side of the bus from a Lua program. The
// functions registered with the interpreter mirror the host-level access
// functions of the hardware package:
//
//	poke(slot, offset, data)    write one register
//	peek(slot, offset) -> data  read one register
//	poll() -> count             run to the next poll pulse
//	step(n)                     step the system n ticks with an idle bus
//	ticks() -> n                the tick counter
//	log(detail)                 add an entry to the session log
//
// Bus faults (no response, busy timeout) surface as Lua errors and can be
// caught with pcall in the usual way.
package script

import (
	"github.com/jetspin/perichain/curated"
	"github.com/jetspin/perichain/hardware"
	"github.com/jetspin/perichain/logger"
	lua "github.com/yuin/gopher-lua"
)

// sentinel errors for the script package.
const (
	ScriptError = "script: %v"
)

// RunFile loads and runs the Lua script in the named file against the
// system.
func RunFile(sys *hardware.System, filename string) error {
	l := newState(sys)
	defer l.Close()
	if err := l.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunString runs the Lua fragment against the system.
func RunString(sys *hardware.System, src string) error {
	l := newState(sys)
	defer l.Close()
	if err := l.DoString(src); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

func newState(sys *hardware.System) *lua.LState {
	l := lua.NewState()

	l.SetGlobal("poke", l.NewFunction(func(l *lua.LState) int {
		slot := uint8(l.CheckInt(1))
		offset := uint16(l.CheckInt(2))
		data := uint8(l.CheckInt(3))
		if err := sys.Poke(slot, offset, data); err != nil {
			l.RaiseError("%v", err)
		}
		return 0
	}))

	l.SetGlobal("peek", l.NewFunction(func(l *lua.LState) int {
		slot := uint8(l.CheckInt(1))
		offset := uint16(l.CheckInt(2))
		v, err := sys.Peek(slot, offset, 0)
		if err != nil {
			l.RaiseError("%v", err)
		}
		l.Push(lua.LNumber(v))
		return 1
	}))

	l.SetGlobal("poll", l.NewFunction(func(l *lua.LState) int {
		l.Push(lua.LNumber(sys.Poll()))
		return 1
	}))

	l.SetGlobal("step", l.NewFunction(func(l *lua.LState) int {
		sys.Idle(l.CheckInt(1))
		return 0
	}))

	l.SetGlobal("ticks", l.NewFunction(func(l *lua.LState) int {
		l.Push(lua.LNumber(sys.Ticks.Ticks()))
		return 1
	}))

	l.SetGlobal("log", l.NewFunction(func(l *lua.LState) int {
		logger.Log("script", l.CheckString(1))
		return 0
	}))

	return l
}
