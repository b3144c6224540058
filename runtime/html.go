package runtime

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/kpcyrd/authoscope/htmlcapability"
)

func registerHTML(L *lua.LState, st *State) {
	// html_select returns only the first match, erroring if the
	// selector matches nothing.
	L.SetGlobal("html_select", L.NewFunction(func(L *lua.LState) int {
		document, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		selector, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		m, err := htmlcapability.SelectFirst(document, selector)
		if err != nil {
			return pushErr(L, st, err)
		}
		L.Push(matchRow(L, m))
		return 1
	}))

	// html_select_list returns every match, an empty array if none.
	L.SetGlobal("html_select_list", L.NewFunction(func(L *lua.LState) int {
		document, err := argString(L, 1)
		if err != nil {
			return pushErr(L, st, err)
		}
		selector, err := argString(L, 2)
		if err != nil {
			return pushErr(L, st, err)
		}
		matches, err := htmlcapability.SelectAll(document, selector)
		if err != nil {
			return pushErr(L, st, err)
		}
		out := L.NewTable()
		for i, m := range matches {
			out.RawSetInt(i+1, matchRow(L, m))
		}
		L.Push(out)
		return 1
	}))
}

func matchRow(L *lua.LState, m htmlcapability.Match) *lua.LTable {
	row := L.NewTable()
	row.RawSetString("text", lua.LString(m.Text))
	attrs := L.NewTable()
	for k, v := range m.Attrs {
		attrs.RawSetString(k, lua.LString(v))
	}
	row.RawSetString("attrs", attrs)
	return row
}
