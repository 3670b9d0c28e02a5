package lua

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are base library functions that reach the file system or
// compile code at run time.
var blockedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// installSandbox removes the blocked globals and routes print to out.
func installSandbox(L *lua.LState, out io.Writer) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))
}

// splitLines splits s at "\n" without dropping a trailing empty line, so
// joining the result with "\n" restores s.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

// helperFuncs are exposed to scripts as the "slate" table.
var helperFuncs = map[string]lua.LGFunction{
	"lines": func(L *lua.LState) int {
		tbl := L.NewTable()
		for _, line := range splitLines(L.CheckString(1)) {
			tbl.Append(lua.LString(line))
		}
		L.Push(tbl)
		return 1
	},
	"join": func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		sep := L.OptString(2, "\n")
		parts := make([]string, 0, tbl.Len())
		for i := 1; i <= tbl.Len(); i++ {
			parts = append(parts, L.ToStringMeta(tbl.RawGetInt(i)).String())
		}
		L.Push(lua.LString(strings.Join(parts, sep)))
		return 1
	},
	"rtrim": func(L *lua.LState) int {
		L.Push(lua.LString(strings.TrimRight(L.CheckString(1), " \t")))
		return 1
	},
}
