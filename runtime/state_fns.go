package runtime

import (
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/logger"
)

// registerState binds last_err/clear_err and the print debug helper.
func registerState(L *lua.LState, st *State) {
	L.SetGlobal("last_err", L.NewFunction(func(L *lua.LState) int {
		err := st.LastErr()
		if err == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(err.Error()))
		return 1
	}))

	L.SetGlobal("clear_err", L.NewFunction(func(L *lua.LState) int {
		st.ClearErr()
		return 0
	}))

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, formatLua(L.Get(i)))
		}
		logger.Debugf("%s", strings.Join(parts, " "))
		return 0
	}))
}

// formatLua renders v the way a script author debugging with print()
// expects: null for nil, bare numbers/bools, quoted strings, and tables
// as "{k: v, ...}".
func formatLua(v lua.LValue) string {
	switch t := v.(type) {
	case *lua.LNilType:
		return "null"
	case lua.LBool:
		return strconv.FormatBool(bool(t))
	case lua.LNumber:
		return t.String()
	case lua.LString:
		return strconv.Quote(string(t))
	case *lua.LTable:
		var parts []string
		t.ForEach(func(k, tv lua.LValue) {
			parts = append(parts, fmt.Sprintf("%s: %s", formatLua(k), formatLua(tv)))
		})
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.String()
	}
}
